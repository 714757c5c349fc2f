package repositories

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// StorageKey is the single key under which the whole note map is stored.
const StorageKey = "anime-notes"

// NoteRepository stores the media id → note text map.
//
// Legacy write paths left arbitrary JSON values in the map, so every read
// normalizes: absent and null become "", non-string values are kept as their
// JSON encoding, and the two-character literal `""` counts as empty.
type NoteRepository struct {
	store KVStore
}

// NewNoteRepository creates a NoteRepository backed by the given store.
func NewNoteRepository(store KVStore) *NoteRepository {
	return &NoteRepository{store: store}
}

// Normalize collapses note text artifacts to a canonical form. It is
// idempotent: the two-character empty-quote literal becomes the empty string,
// everything else passes through unchanged.
func Normalize(text string) string {
	if text == `""` {
		return ""
	}
	return text
}

// decodeValue coerces a raw JSON value from the stored map to note text.
func decodeValue(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return Normalize(s)
	}

	// Non-string value from a legacy write path: keep its JSON encoding.
	return Normalize(string(raw))
}

// readRaw loads the stored map without normalization.
func (r *NoteRepository) readRaw() (map[string]json.RawMessage, error) {
	data, ok, err := r.store.Get(StorageKey)
	if err != nil {
		return nil, err
	}

	notes := make(map[string]json.RawMessage)
	if !ok || len(data) == 0 {
		return notes, nil
	}

	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode note map: %w", err)
	}
	return notes, nil
}

// writeRaw replaces the stored map wholesale.
func (r *NoteRepository) writeRaw(notes map[string]json.RawMessage) error {
	data, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("failed to encode note map: %w", err)
	}
	return r.store.Set(StorageKey, data)
}

// Read returns the normalized note text for id, or "" if absent.
func (r *NoteRepository) Read(id int) (string, error) {
	notes, err := r.readRaw()
	if err != nil {
		return "", err
	}
	return decodeValue(notes[strconv.Itoa(id)]), nil
}

// ReadAll returns the full normalized map.
func (r *NoteRepository) ReadAll() (map[int]string, error) {
	raw, err := r.readRaw()
	if err != nil {
		return nil, err
	}

	notes := make(map[int]string, len(raw))
	for key, value := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			// Stray non-numeric key from an alternate write path, skip it.
			continue
		}
		notes[id] = decodeValue(value)
	}
	return notes, nil
}

// Write upserts id → text. The whole map is read, modified, and replaced;
// concurrent writers race at whole-map granularity.
func (r *NoteRepository) Write(id int, text string) error {
	notes, err := r.readRaw()
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(Normalize(text))
	if err != nil {
		return fmt.Errorf("failed to encode note: %w", err)
	}

	notes[strconv.Itoa(id)] = encoded
	return r.writeRaw(notes)
}

// Delete removes id from the map. Same replace-on-write caveat as Write.
func (r *NoteRepository) Delete(id int) error {
	notes, err := r.readRaw()
	if err != nil {
		return err
	}

	key := strconv.Itoa(id)
	if _, ok := notes[key]; !ok {
		return nil
	}

	delete(notes, key)
	return r.writeRaw(notes)
}

// Merge folds incoming into the stored map in a single read-modify-write:
// union on new ids, incoming wins on conflict.
func (r *NoteRepository) Merge(incoming map[int]string) error {
	notes, err := r.readRaw()
	if err != nil {
		return err
	}

	for id, text := range incoming {
		encoded, err := json.Marshal(Normalize(text))
		if err != nil {
			return fmt.Errorf("failed to encode note: %w", err)
		}
		notes[strconv.Itoa(id)] = encoded
	}
	return r.writeRaw(notes)
}

// IDs returns the ids present in the map in ascending order.
func (r *NoteRepository) IDs() ([]int, error) {
	notes, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(notes))
	for id := range notes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

// HasNote reports whether id has a non-empty note after normalization.
func (r *NoteRepository) HasNote(id int) (bool, error) {
	text, err := r.Read(id)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(text) != "", nil
}
