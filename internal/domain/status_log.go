package domain

import "time"

// StatusLogEntry is one immutable row of a status history. The same shape
// serves both subject kinds (time entries and billing runs); SubjectID
// points at whichever table the log belongs to. Seq is the monotonically
// increasing row id used to break timestamp ties.
type StatusLogEntry struct {
	Seq        int64
	SubjectID  string
	Status     Status
	ModifiedBy string
	ModifiedAt time.Time
	Comment    *string
}

// CurrentStatus derives the present state of a subject from its log: the
// row with the latest timestamp, ties broken by the highest seq. Returns
// false when the log is empty.
func CurrentStatus(log []StatusLogEntry) (StatusLogEntry, bool) {
	if len(log) == 0 {
		return StatusLogEntry{}, false
	}
	latest := log[0]
	for _, row := range log[1:] {
		if row.ModifiedAt.After(latest.ModifiedAt) {
			latest = row
			continue
		}
		if row.ModifiedAt.Equal(latest.ModifiedAt) && row.Seq > latest.Seq {
			latest = row
		}
	}
	return latest, true
}

// StatusAt recovers the most recent log row carrying the given status
// code, e.g. "who approved and when" after later stages were recorded.
// Returns false when the subject never reached that status.
func StatusAt(log []StatusLogEntry, status Status) (StatusLogEntry, bool) {
	var (
		match StatusLogEntry
		found bool
	)
	for _, row := range log {
		if row.Status != status {
			continue
		}
		if !found || row.ModifiedAt.After(match.ModifiedAt) ||
			(row.ModifiedAt.Equal(match.ModifiedAt) && row.Seq > match.Seq) {
			match = row
			found = true
		}
	}
	return match, found
}
