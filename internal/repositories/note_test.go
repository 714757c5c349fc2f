package repositories

import (
	"testing"

	"github.com/faddix/aninote/internal/shared"
)

func TestNormalize(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain text", in: "watch ep 5", want: "watch ep 5"},
		{name: "empty string", in: "", want: ""},
		{name: "empty-quote literal", in: `""`, want: ""},
		{name: "quoted text untouched", in: `"hi"`, want: `"hi"`},
		{name: "whitespace untouched", in: "  ", want: "  "},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := Normalize(got); again != got {
				t.Errorf("Normalize is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNoteRepository(t *testing.T) {
	t.Run("ReadAbsent", func(t *testing.T) {
		repo := NewNoteRepository(NewMemoryStore())

		text, err := repo.Read(42)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if text != "" {
			t.Errorf("expected empty note for absent id, got %q", text)
		}
	})

	t.Run("WriteRead", func(t *testing.T) {
		repo := NewNoteRepository(NewMemoryStore())

		if err := repo.Write(42, "watch ep 5"); err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		text, err := repo.Read(42)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if text != "watch ep 5" {
			t.Errorf("expected %q, got %q", "watch ep 5", text)
		}
	})

	t.Run("LegacyValues", func(t *testing.T) {
		store := NewMemoryStore()
		// Artifacts from legacy/alternate write paths: null, a number, an
		// object, and the empty-quote literal as a stored string.
		store.Set(StorageKey, []byte(`{"1": null, "2": 7, "3": {"a": 1}, "4": "\"\"", "5": "ok"}`))
		repo := NewNoteRepository(store)

		all, err := repo.ReadAll()
		if err != nil {
			t.Fatalf("ReadAll failed: %v", err)
		}

		want := map[int]string{1: "", 2: "7", 3: `{"a": 1}`, 4: "", 5: "ok"}
		for id, text := range want {
			if all[id] != text {
				t.Errorf("id %d: expected %q, got %q", id, text, all[id])
			}
		}
	})

	t.Run("NonNumericKeysSkipped", func(t *testing.T) {
		store := NewMemoryStore()
		store.Set(StorageKey, []byte(`{"42": "keep", "meta": "skip"}`))
		repo := NewNoteRepository(store)

		all, err := repo.ReadAll()
		if err != nil {
			t.Fatalf("ReadAll failed: %v", err)
		}
		if len(all) != 1 || all[42] != "keep" {
			t.Errorf("expected {42: keep}, got %v", all)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewNoteRepository(NewMemoryStore())

		if err := repo.Write(7, "bye"); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if err := repo.Delete(7); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		text, err := repo.Read(7)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if text != "" {
			t.Errorf("expected empty note after delete, got %q", text)
		}

		// Deleting an absent id is a no-op
		if err := repo.Delete(7); err != nil {
			t.Errorf("deleting absent id should succeed: %v", err)
		}
	})

	t.Run("IDs", func(t *testing.T) {
		repo := NewNoteRepository(NewMemoryStore())
		for _, id := range []int{30, 10, 20} {
			if err := repo.Write(id, "x"); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
		}

		ids, err := repo.IDs()
		if err != nil {
			t.Fatalf("IDs failed: %v", err)
		}
		if len(ids) != 3 || ids[0] != 10 || ids[1] != 20 || ids[2] != 30 {
			t.Errorf("expected [10 20 30], got %v", ids)
		}
	})

	t.Run("HasNote", func(t *testing.T) {
		repo := NewNoteRepository(NewMemoryStore())
		repo.Write(1, "text")
		repo.Write(2, "   ")

		if ok, _ := repo.HasNote(1); !ok {
			t.Error("id 1 should have a note")
		}
		if ok, _ := repo.HasNote(2); ok {
			t.Error("whitespace-only note should not count")
		}
		if ok, _ := repo.HasNote(3); ok {
			t.Error("absent id should not have a note")
		}
	})
}

func TestSQLiteStore(t *testing.T) {
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	store := NewSQLiteStore(db)

	if _, ok, err := store.Get("missing"); err != nil || ok {
		t.Errorf("expected absent key, got ok=%v err=%v", ok, err)
	}

	if err := store.Set("k", []byte(`{"1": "a"}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok, err := store.Get("k")
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if string(value) != `{"1": "a"}` {
		t.Errorf("unexpected value: %s", value)
	}

	// Whole-value replace
	if err := store.Set("k", []byte(`{}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, _, _ = store.Get("k")
	if string(value) != `{}` {
		t.Errorf("expected replaced value, got %s", value)
	}

	repo := NewNoteRepository(store)
	if err := repo.Write(171457, "best OP of the season"); err != nil {
		t.Fatalf("Write through sqlite failed: %v", err)
	}
	text, err := repo.Read(171457)
	if err != nil || text != "best OP of the season" {
		t.Errorf("round trip through sqlite failed: %q, %v", text, err)
	}
}
