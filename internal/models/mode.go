package models

// Mode selects which note source is authoritative and whether the user can
// switch between sources at runtime. It is parsed once from configuration and
// never changes afterwards; every component consults its derived accessors
// instead of re-interpreting the raw string.
type Mode string

const (
	// ModeLocalOnly keeps notes in the local store only.
	ModeLocalOnly Mode = "local-only"
	// ModeAniListOnly reads and writes notes on AniList only.
	ModeAniListOnly Mode = "anilist-only"
	// ModeSynced writes locally and pushes every save to AniList.
	ModeSynced Mode = "local-anilist-synced"
	// ModeDualView keeps both sources independent and lets the user toggle
	// between them. This is the default.
	ModeDualView Mode = "dual-view"
)

// PushMode says whether a local save is also pushed to AniList.
type PushMode int

const (
	PushLocalOnly PushMode = iota
	PushRemote
)

// FetchMode says when remote notes are pulled into view.
type FetchMode int

const (
	FetchOnDemand FetchMode = iota
	FetchIfEmpty
	FetchAlways
)

// ParseMode maps a configuration string to a Mode, falling back to
// ModeDualView for anything unrecognized.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeLocalOnly, ModeAniListOnly, ModeSynced, ModeDualView:
		return Mode(s)
	default:
		return ModeDualView
	}
}

// EnableViewToggle reports whether the user can flip between sources.
func (m Mode) EnableViewToggle() bool {
	return m == ModeDualView
}

// PushMode reports whether saves propagate to AniList.
func (m Mode) PushMode() PushMode {
	switch m {
	case ModeSynced, ModeAniListOnly:
		return PushRemote
	default:
		return PushLocalOnly
	}
}

// FetchMode reports when remote notes are pulled.
func (m Mode) FetchMode() FetchMode {
	switch m {
	case ModeAniListOnly:
		return FetchAlways
	case ModeSynced:
		return FetchIfEmpty
	default:
		return FetchOnDemand
	}
}

// IsAniListOnly reports whether AniList is the sole source of truth.
func (m Mode) IsAniListOnly() bool { return m == ModeAniListOnly }

// IsLocalOnly reports whether the local store is the sole source of truth.
func (m Mode) IsLocalOnly() bool { return m == ModeLocalOnly }

// DefaultSource is the view source a session starts on.
func (m Mode) DefaultSource() Source {
	if m.IsAniListOnly() {
		return SourceAniList
	}
	return SourceLocal
}
