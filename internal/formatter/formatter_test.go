package formatter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/faddix/aninote/internal/models"
)

func sampleNotes() []models.Note {
	return []models.Note{
		{ID: 1, Title: "Akira", Note: "Rewatch the final act", CoverImage: "https://img.example/akira.jpg"},
		{ID: 30, Title: "Berserk", Note: "Paused at episode 12"},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleNotes())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ID,Title,Note") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "Akira") {
			t.Errorf("CSV missing first title")
		}
		if !strings.Contains(output, "Paused at episode 12") {
			t.Errorf("CSV missing second note text")
		}
		if !strings.Contains(output, "30") {
			t.Errorf("CSV missing second ID")
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleNotes(), "My List")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "# My List") {
			t.Errorf("Markdown missing title heading, got: %s", output)
		}
		if !strings.Contains(output, "**Entries**: 2") {
			t.Errorf("Markdown missing entry count")
		}
		if !strings.Contains(output, "## Akira") {
			t.Errorf("Markdown missing note section")
		}
		if !strings.Contains(output, "![Cover](https://img.example/akira.jpg)") {
			t.Errorf("Markdown missing cover image")
		}
		if strings.Contains(output, "![Cover]()") {
			t.Errorf("Markdown rendered empty cover image")
		}
	})

	t.Run("ExportToMarkdown default title", func(t *testing.T) {
		data, err := ExportToMarkdown(nil, "")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		if !strings.Contains(string(data), "# Anime Notes") {
			t.Errorf("expected default title, got: %s", data)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleNotes())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "2 entries") {
			t.Errorf("text missing entry count, got: %s", output)
		}
		if !strings.Contains(output, "1. Akira (#1)") {
			t.Errorf("text missing numbered entry")
		}
		if !strings.Contains(output, "2. Berserk (#30)") {
			t.Errorf("text missing second entry")
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleNotes())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded []models.Note
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("JSON output did not round trip: %v", err)
		}
		if len(decoded) != 2 {
			t.Errorf("expected 2 notes, got %d", len(decoded))
		}
		if decoded[0].Title != "Akira" {
			t.Errorf("expected Akira, got %s", decoded[0].Title)
		}
	})
}

func TestExport(t *testing.T) {
	tests := []struct {
		format  string
		want    string
		wantErr bool
	}{
		{"json", "\"Akira\"", false},
		{"", "\"Akira\"", false},
		{"csv", "ID,Title,Note", false},
		{"markdown", "## Akira", false},
		{"md", "## Akira", false},
		{"txt", "1. Akira (#1)", false},
		{"text", "1. Akira (#1)", false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run("format "+tt.format, func(t *testing.T) {
			data, err := Export(sampleNotes(), tt.format)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for unsupported format")
				}
				return
			}
			if err != nil {
				t.Fatalf("Export failed: %v", err)
			}
			if !strings.Contains(string(data), tt.want) {
				t.Errorf("output missing %q, got: %s", tt.want, data)
			}
		})
	}
}
