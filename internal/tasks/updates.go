package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	FetchRemote Phase = iota
	MergeLocal
	PushNotes
	BuildList
)

func (p Phase) String() string {
	switch p {
	case FetchRemote:
		return "fetch_remote"
	case MergeLocal:
		return "merge_local"
	case PushNotes:
		return "push_notes"
	case BuildList:
		return "build_list"
	default:
		return "unknown"
	}
}

// fetchRemoteUpdate is the constructor for [FetchRemote] progress
func fetchRemoteUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRemote,
		Step:    step,
		Total:   total,
		Message: "Fetching notes from AniList...",
	}
}

// mergeUpdate is the constructor for [MergeLocal] progress
func mergeUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MergeLocal,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Merging %d remote notes into the local store", count),
	}
}

// pushUpdate is the constructor for [PushNotes] progress
func pushUpdate(step, total, id int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PushNotes,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Pushing note %d/%d (media %d)", step, total, id),
	}
}

// buildListUpdate is the constructor for [BuildList] progress
func buildListUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BuildList,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Resolving titles (%d/%d)", step, total),
	}
}
