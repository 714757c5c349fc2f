// package services defines interfaces for the remote note gateway and the
// anime lookup collaborator
//
// AniList (GraphQL)
package services

import (
	"context"
)

// NoteService is the remote note gateway. Implementations store the note as
// the "notes" field on the user's list entry for a media id.
type NoteService interface {
	// FetchOne returns the remote note for id. found is false when the user
	// has no list entry for id; an error means the call itself failed and
	// says nothing about whether a note exists.
	FetchOne(ctx context.Context, id int) (text string, found bool, err error)

	// SaveOne sets the remote note for id to text.
	SaveOne(ctx context.Context, id int, text string) error

	// DeleteOne clears the remote note for id. The remote service has no
	// distinct delete primitive for this field, so this saves an empty note.
	DeleteOne(ctx context.Context, id int) error

	// FetchAll pages through the user's entire list collection and returns
	// mediaId → note text for every entry with a non-empty note. On failure
	// the partial map collected so far is returned alongside the error.
	FetchAll(ctx context.Context) (map[int]string, error)

	// Name returns the name of the service (e.g., "AniList")
	Name() string
}

// MediaEntry is the display metadata for one anime, used to enrich note rows.
type MediaEntry struct {
	ID         int
	Title      string
	CoverImage string
}

// LookupService resolves display metadata for a media id. Failures are
// non-fatal to callers; the aggregator substitutes a placeholder.
type LookupService interface {
	GetEntry(ctx context.Context, id int) (*MediaEntry, error)
}
