// AniList implementation of [NoteService] and [LookupService]
//
// Query shapes based on https://docs.anilist.co/reference/
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/faddix/aninote/internal/repositories"
	"github.com/faddix/aninote/internal/shared"
)

const (
	viewerQuery = `query { Viewer { id name } }`

	fetchNoteQuery = `query ($userId: Int, $mediaId: Int) {
  MediaList(userId: $userId, mediaId: $mediaId) { notes }
}`

	saveNoteMutation = `mutation ($mediaId: Int, $notes: String) {
  SaveMediaListEntry(mediaId: $mediaId, notes: $notes) { id notes }
}`

	listCollectionQuery = `query ($userId: Int, $chunk: Int, $perChunk: Int) {
  MediaListCollection(userId: $userId, type: ANIME, chunk: $chunk, perChunk: $perChunk, forceSingleCompletedList: true) {
    hasNextChunk
    lists { entries { mediaId notes } }
  }
}`

	mediaQuery = `query ($id: Int) {
  Media(id: $id, type: ANIME) {
    id
    title { userPreferred romaji }
    coverImage { large }
  }
}`
)

// perChunk is the AniList maximum for MediaListCollection paging.
const perChunk = 500

// AniListService implements [NoteService] against the AniList GraphQL API.
// The note lives on the viewer's list entry, so every operation needs the
// authenticated user id, resolved once and cached.
type AniListService struct {
	client *GraphQLClient

	mu     sync.Mutex
	userID int
}

// NewAniListService creates an AniList note gateway over the given client.
func NewAniListService(client *GraphQLClient) *AniListService {
	return &AniListService{client: client}
}

func (s *AniListService) Name() string {
	return "AniList"
}

// Viewer resolves the authenticated user's id and name.
func (s *AniListService) Viewer(ctx context.Context) (int, string, error) {
	if !s.client.Authenticated() {
		return 0, "", shared.ErrNotAuthenticated
	}

	var resp struct {
		Viewer struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"Viewer"`
	}
	if err := s.client.Do(ctx, viewerQuery, nil, &resp); err != nil {
		return 0, "", fmt.Errorf("failed to resolve viewer: %w", err)
	}

	s.mu.Lock()
	s.userID = resp.Viewer.ID
	s.mu.Unlock()

	return resp.Viewer.ID, resp.Viewer.Name, nil
}

// viewerID returns the cached user id, resolving it on first use.
func (s *AniListService) viewerID(ctx context.Context) (int, error) {
	s.mu.Lock()
	id := s.userID
	s.mu.Unlock()
	if id != 0 {
		return id, nil
	}

	id, _, err := s.Viewer(ctx)
	return id, err
}

// FetchOne returns the note on the viewer's list entry for id.
func (s *AniListService) FetchOne(ctx context.Context, id int) (string, bool, error) {
	if !s.client.Authenticated() {
		return "", false, shared.ErrNotAuthenticated
	}

	userID, err := s.viewerID(ctx)
	if err != nil {
		return "", false, err
	}

	var resp struct {
		MediaList struct {
			Notes *string `json:"notes"`
		} `json:"MediaList"`
	}
	err = s.client.Do(ctx, fetchNoteQuery, map[string]any{"userId": userID, "mediaId": id}, &resp)
	if err != nil {
		var gerr *GraphQLError
		if errors.As(err, &gerr) && gerr.NotFound() {
			// No list entry for this media.
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to fetch note for %d: %w", id, err)
	}

	if resp.MediaList.Notes == nil {
		return "", true, nil
	}
	return repositories.Normalize(*resp.MediaList.Notes), true, nil
}

// SaveOne sets the note on the viewer's list entry for id.
func (s *AniListService) SaveOne(ctx context.Context, id int, text string) error {
	if !s.client.Authenticated() {
		return shared.ErrNotAuthenticated
	}

	var resp struct {
		SaveMediaListEntry struct {
			ID int `json:"id"`
		} `json:"SaveMediaListEntry"`
	}
	err := s.client.Do(ctx, saveNoteMutation, map[string]any{"mediaId": id, "notes": text}, &resp)
	if err != nil {
		return fmt.Errorf("failed to save note for %d: %w", id, err)
	}
	return nil
}

// DeleteOne clears the note for id by saving an empty string.
func (s *AniListService) DeleteOne(ctx context.Context, id int) error {
	return s.SaveOne(ctx, id, "")
}

// FetchAll pages through the viewer's anime list and collects every non-empty
// note. A mid-collection failure returns the notes gathered so far together
// with the error; callers cannot distinguish a short map from a partial one.
func (s *AniListService) FetchAll(ctx context.Context) (map[int]string, error) {
	notes := make(map[int]string)

	if !s.client.Authenticated() {
		return notes, shared.ErrNotAuthenticated
	}

	userID, err := s.viewerID(ctx)
	if err != nil {
		return notes, err
	}

	for chunk := 1; ; chunk++ {
		var resp struct {
			MediaListCollection struct {
				HasNextChunk bool `json:"hasNextChunk"`
				Lists        []struct {
					Entries []struct {
						MediaID int     `json:"mediaId"`
						Notes   *string `json:"notes"`
					} `json:"entries"`
				} `json:"lists"`
			} `json:"MediaListCollection"`
		}

		vars := map[string]any{"userId": userID, "chunk": chunk, "perChunk": perChunk}
		if err := s.client.Do(ctx, listCollectionQuery, vars, &resp); err != nil {
			return notes, fmt.Errorf("failed to fetch list chunk %d: %w", chunk, err)
		}

		for _, list := range resp.MediaListCollection.Lists {
			for _, entry := range list.Entries {
				if entry.Notes == nil {
					continue
				}
				if text := repositories.Normalize(*entry.Notes); text != "" {
					notes[entry.MediaID] = text
				}
			}
		}

		if !resp.MediaListCollection.HasNextChunk {
			break
		}
	}

	return notes, nil
}

// AniListLookup implements [LookupService] with the public Media query.
// It works without a token; lookups are display enrichment only.
type AniListLookup struct {
	client *GraphQLClient
}

// NewAniListLookup creates a lookup service over the given client.
func NewAniListLookup(client *GraphQLClient) *AniListLookup {
	return &AniListLookup{client: client}
}

// GetEntry resolves title and cover image for a media id.
func (l *AniListLookup) GetEntry(ctx context.Context, id int) (*MediaEntry, error) {
	var resp struct {
		Media struct {
			ID    int `json:"id"`
			Title struct {
				UserPreferred string `json:"userPreferred"`
				Romaji        string `json:"romaji"`
			} `json:"title"`
			CoverImage struct {
				Large string `json:"large"`
			} `json:"coverImage"`
		} `json:"Media"`
	}

	if err := l.client.Do(ctx, mediaQuery, map[string]any{"id": id}, &resp); err != nil {
		var gerr *GraphQLError
		if errors.As(err, &gerr) && gerr.NotFound() {
			return nil, fmt.Errorf("%w: media %d", shared.ErrEntryNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrLookupFailed, err)
	}

	title := resp.Media.Title.UserPreferred
	if title == "" {
		title = resp.Media.Title.Romaji
	}

	return &MediaEntry{
		ID:         resp.Media.ID,
		Title:      title,
		CoverImage: resp.Media.CoverImage.Large,
	}, nil
}
