// package formatter provides functions to export note lists to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/faddix/aninote/internal/models"
)

// ExportToCSV converts a note list to CSV format with columns: ID, Title, Note
func ExportToCSV(notes []models.Note) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Note"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, note := range notes {
		record := []string{
			strconv.Itoa(note.ID),
			note.Title,
			note.Note,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a note list to a Markdown document, one section
// per anime, cover images included when present
func ExportToMarkdown(notes []models.Note, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Anime Notes"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Entries**: %d\n\n", len(notes)))

	for _, note := range notes {
		buf.WriteString(fmt.Sprintf("## %s\n\n", note.Title))
		if note.CoverImage != "" {
			buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", note.CoverImage))
		}
		buf.WriteString(note.Note)
		buf.WriteString("\n\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a note list to plain text format
func ExportToText(notes []models.Note) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Anime notes: %d entries\n\n", len(notes)))
	for i, note := range notes {
		buf.WriteString(fmt.Sprintf("%d. %s (#%d)\n", i+1, note.Title, note.ID))
		buf.WriteString(fmt.Sprintf("   %s\n", note.Note))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a note list to indented JSON
func ExportToJSON(notes []models.Note) ([]byte, error) {
	data, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notes: %w", err)
	}
	return data, nil
}

// Export dispatches on a format name: json, csv, markdown, or txt
func Export(notes []models.Note, format string) ([]byte, error) {
	switch format {
	case "json", "":
		return ExportToJSON(notes)
	case "csv":
		return ExportToCSV(notes)
	case "markdown", "md":
		return ExportToMarkdown(notes, "")
	case "txt", "text":
		return ExportToText(notes)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
