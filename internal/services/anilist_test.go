package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/faddix/aninote/internal/shared"
)

// graphQLStub serves canned responses keyed by a substring of the query document.
func graphQLStub(t *testing.T, responses map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST method, got %s", r.Method)
		}

		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}

		for needle, body := range responses {
			if strings.Contains(req.Query, needle) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(body))
				return
			}
		}
		t.Errorf("unexpected query: %s", req.Query)
	}))
}

func TestGraphQLClient(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		client := NewGraphQLClient("", "", 0)
		if client.endpoint != defaultGraphQLURL {
			t.Errorf("expected default endpoint, got %s", client.endpoint)
		}
		if client.Authenticated() {
			t.Error("client without token should not report authenticated")
		}
	})

	t.Run("WithToken", func(t *testing.T) {
		client := NewGraphQLClient("http://example.com", "tok", 100)
		if !client.Authenticated() {
			t.Error("client with token should report authenticated")
		}
	})

	t.Run("GraphQLError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"data": null, "errors": [{"message": "Not Found.", "status": 404}]}`))
		}))
		defer server.Close()

		client := NewGraphQLClient(server.URL, "", 100)
		err := client.Do(context.Background(), "query { X }", nil, nil)

		var gerr *GraphQLError
		if !errors.As(err, &gerr) {
			t.Fatalf("expected *GraphQLError, got %v", err)
		}
		if !gerr.NotFound() {
			t.Errorf("expected NotFound, got status %d", gerr.Status)
		}
	})

	t.Run("TransportError", func(t *testing.T) {
		client := NewGraphQLClient("http://127.0.0.1:1", "", 100)
		err := client.Do(context.Background(), "query { X }", nil, nil)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestAniListService(t *testing.T) {
	viewerBody := `{"data": {"Viewer": {"id": 9000, "name": "faddix"}}}`

	t.Run("NoToken", func(t *testing.T) {
		svc := NewAniListService(NewGraphQLClient("http://example.com", "", 100))

		if _, _, err := svc.FetchOne(context.Background(), 1); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("FetchOne without token: expected ErrNotAuthenticated, got %v", err)
		}
		if err := svc.SaveOne(context.Background(), 1, "x"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("SaveOne without token: expected ErrNotAuthenticated, got %v", err)
		}
		if _, err := svc.FetchAll(context.Background()); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("FetchAll without token: expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("FetchOne", func(t *testing.T) {
		server := graphQLStub(t, map[string]string{
			"Viewer":    viewerBody,
			"MediaList": `{"data": {"MediaList": {"notes": "rewatch in fall"}}}`,
		})
		defer server.Close()

		svc := NewAniListService(NewGraphQLClient(server.URL, "tok", 100))
		text, found, err := svc.FetchOne(context.Background(), 42)
		if err != nil {
			t.Fatalf("FetchOne failed: %v", err)
		}
		if !found || text != "rewatch in fall" {
			t.Errorf("expected (rewatch in fall, true), got (%q, %v)", text, found)
		}
	})

	t.Run("FetchOneNullNote", func(t *testing.T) {
		server := graphQLStub(t, map[string]string{
			"Viewer":    viewerBody,
			"MediaList": `{"data": {"MediaList": {"notes": null}}}`,
		})
		defer server.Close()

		svc := NewAniListService(NewGraphQLClient(server.URL, "tok", 100))
		text, found, err := svc.FetchOne(context.Background(), 42)
		if err != nil || !found || text != "" {
			t.Errorf("expected empty found note, got (%q, %v, %v)", text, found, err)
		}
	})

	t.Run("FetchOneNoEntry", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.Write([]byte(viewerBody))
				return
			}
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"data": null, "errors": [{"message": "Not Found.", "status": 404}]}`))
		}))
		defer server.Close()

		svc := NewAniListService(NewGraphQLClient(server.URL, "tok", 100))
		text, found, err := svc.FetchOne(context.Background(), 42)
		if err != nil {
			t.Fatalf("missing entry should not be an error: %v", err)
		}
		if found || text != "" {
			t.Errorf("expected not found, got (%q, %v)", text, found)
		}
	})

	t.Run("SaveOne", func(t *testing.T) {
		var gotVars map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Query     string         `json:"query"`
				Variables map[string]any `json:"variables"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			gotVars = req.Variables
			w.Write([]byte(`{"data": {"SaveMediaListEntry": {"id": 555, "notes": "hello"}}}`))
		}))
		defer server.Close()

		svc := NewAniListService(NewGraphQLClient(server.URL, "tok", 100))
		if err := svc.SaveOne(context.Background(), 42, "hello"); err != nil {
			t.Fatalf("SaveOne failed: %v", err)
		}
		if gotVars["mediaId"] != float64(42) || gotVars["notes"] != "hello" {
			t.Errorf("unexpected mutation variables: %v", gotVars)
		}
	})

	t.Run("DeleteOneSavesEmpty", func(t *testing.T) {
		var gotVars map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Variables map[string]any `json:"variables"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			gotVars = req.Variables
			w.Write([]byte(`{"data": {"SaveMediaListEntry": {"id": 555, "notes": ""}}}`))
		}))
		defer server.Close()

		svc := NewAniListService(NewGraphQLClient(server.URL, "tok", 100))
		if err := svc.DeleteOne(context.Background(), 42); err != nil {
			t.Fatalf("DeleteOne failed: %v", err)
		}
		if gotVars["notes"] != "" {
			t.Errorf("expected empty notes variable, got %v", gotVars["notes"])
		}
	})

	t.Run("FetchAll", func(t *testing.T) {
		collection := `{"data": {"MediaListCollection": {
			"hasNextChunk": false,
			"lists": [
				{"entries": [
					{"mediaId": 1, "notes": "a"},
					{"mediaId": 2, "notes": null},
					{"mediaId": 3, "notes": "\"\""},
					{"mediaId": 4, "notes": "b"}
				]}
			]
		}}}`
		server := graphQLStub(t, map[string]string{
			"Viewer":              viewerBody,
			"MediaListCollection": collection,
		})
		defer server.Close()

		svc := NewAniListService(NewGraphQLClient(server.URL, "tok", 100))
		notes, err := svc.FetchAll(context.Background())
		if err != nil {
			t.Fatalf("FetchAll failed: %v", err)
		}

		want := map[int]string{1: "a", 4: "b"}
		if len(notes) != len(want) {
			t.Fatalf("expected %d notes, got %d: %v", len(want), len(notes), notes)
		}
		for id, text := range want {
			if notes[id] != text {
				t.Errorf("id %d: expected %q, got %q", id, text, notes[id])
			}
		}
	})

	t.Run("FetchAllPaged", func(t *testing.T) {
		chunkCalls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Query     string         `json:"query"`
				Variables map[string]any `json:"variables"`
			}
			json.NewDecoder(r.Body).Decode(&req)

			if strings.Contains(req.Query, "Viewer") {
				w.Write([]byte(viewerBody))
				return
			}

			chunkCalls++
			hasNext := "true"
			entry := `{"mediaId": 10, "notes": "first"}`
			if req.Variables["chunk"] == float64(2) {
				hasNext = "false"
				entry = `{"mediaId": 20, "notes": "second"}`
			}
			w.Write([]byte(`{"data": {"MediaListCollection": {"hasNextChunk": ` + hasNext +
				`, "lists": [{"entries": [` + entry + `]}]}}}`))
		}))
		defer server.Close()

		svc := NewAniListService(NewGraphQLClient(server.URL, "tok", 100))
		notes, err := svc.FetchAll(context.Background())
		if err != nil {
			t.Fatalf("FetchAll failed: %v", err)
		}
		if chunkCalls != 2 {
			t.Errorf("expected 2 chunk calls, got %d", chunkCalls)
		}
		if notes[10] != "first" || notes[20] != "second" {
			t.Errorf("unexpected notes: %v", notes)
		}
	})
}

func TestAniListLookup(t *testing.T) {
	t.Run("GetEntry", func(t *testing.T) {
		server := graphQLStub(t, map[string]string{
			"Media(": `{"data": {"Media": {
				"id": 42,
				"title": {"userPreferred": "Frieren", "romaji": "Sousou no Frieren"},
				"coverImage": {"large": "https://img.example/42.png"}
			}}}`,
		})
		defer server.Close()

		lookup := NewAniListLookup(NewGraphQLClient(server.URL, "", 100))
		entry, err := lookup.GetEntry(context.Background(), 42)
		if err != nil {
			t.Fatalf("GetEntry failed: %v", err)
		}
		if entry.Title != "Frieren" || entry.CoverImage != "https://img.example/42.png" {
			t.Errorf("unexpected entry: %+v", entry)
		}
	})

	t.Run("RomajiFallback", func(t *testing.T) {
		server := graphQLStub(t, map[string]string{
			"Media(": `{"data": {"Media": {
				"id": 42,
				"title": {"userPreferred": "", "romaji": "Sousou no Frieren"},
				"coverImage": {"large": ""}
			}}}`,
		})
		defer server.Close()

		lookup := NewAniListLookup(NewGraphQLClient(server.URL, "", 100))
		entry, err := lookup.GetEntry(context.Background(), 42)
		if err != nil {
			t.Fatalf("GetEntry failed: %v", err)
		}
		if entry.Title != "Sousou no Frieren" {
			t.Errorf("expected romaji fallback, got %q", entry.Title)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"data": null, "errors": [{"message": "Not Found.", "status": 404}]}`))
		}))
		defer server.Close()

		lookup := NewAniListLookup(NewGraphQLClient(server.URL, "", 100))
		_, err := lookup.GetEntry(context.Background(), 42)
		if !errors.Is(err, shared.ErrEntryNotFound) {
			t.Errorf("expected ErrEntryNotFound, got %v", err)
		}
	})
}
