// package models defines the data model for the anime note manager
package models

// Note is a display-ready projection of a single anime note.
//
// Only the id → note text mapping is ever persisted; title and cover image
// are resolved lazily from the lookup service when a list is built.
type Note struct {
	ID         int    // AniList media id
	Title      string // Display title, resolved at build time
	Note       string // User note text, may be empty
	CoverImage string // Cover image URL, may be empty
}

// Source identifies which store a view reads from.
type Source string

const (
	SourceLocal   Source = "local"
	SourceAniList Source = "anilist"
)

// String implements fmt.Stringer.
func (s Source) String() string { return string(s) }
