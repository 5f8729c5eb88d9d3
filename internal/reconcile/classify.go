package reconcile

import "ludex/internal/catalog"

// Verdict classifies a scanned file relative to the store.
type Verdict int

const (
	// VerdictNew means no row occupies the file's path.
	VerdictNew Verdict = iota
	// VerdictUnchanged means an active row matches path and size.
	VerdictUnchanged
	// VerdictRestorable means a soft-deleted row occupies the path.
	VerdictRestorable
	// VerdictAltered means an active row matches the path with a different size.
	VerdictAltered
)

func (v Verdict) String() string {
	switch v {
	case VerdictNew:
		return "new"
	case VerdictUnchanged:
		return "unchanged"
	case VerdictRestorable:
		return "restorable"
	case VerdictAltered:
		return "altered"
	default:
		return "unknown"
	}
}

// Classify decides how a discovered file relates to the stored entry occupying
// its exact path, if any. Path is the stable identity key: a rename shows up
// as a new entry plus a removal, never as a move. A soft-deleted row is
// restorable regardless of size, since its fields are overwritten on restore.
func Classify(existing *catalog.Entry, size int64) Verdict {
	switch {
	case existing == nil:
		return VerdictNew
	case existing.Deleted():
		return VerdictRestorable
	case existing.Size != size:
		return VerdictAltered
	default:
		return VerdictUnchanged
	}
}
