package availability

import "time"

// SourceKind tells where a busy interval came from.
type SourceKind string

const (
	SourceInternal SourceKind = "internal"
	SourceExternal SourceKind = "external"
)

// BusyInterval is a half-open [Start, End) block that a slot must not overlap.
type BusyInterval struct {
	Start  time.Time
	End    time.Time
	Source SourceKind
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// FilterConflicts keeps the slots that overlap nothing in either list.
func FilterConflicts(slots []CandidateSlot, internal, external []BusyInterval) []CandidateSlot {
	free := make([]CandidateSlot, 0, len(slots))
	for _, slot := range slots {
		if conflicts(slot, internal) || conflicts(slot, external) {
			continue
		}
		free = append(free, slot)
	}
	return free
}

func conflicts(slot CandidateSlot, busy []BusyInterval) bool {
	for _, b := range busy {
		if Overlaps(slot.Start, slot.End, b.Start, b.End) {
			return true
		}
	}
	return false
}
