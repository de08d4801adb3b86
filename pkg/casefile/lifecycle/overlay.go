package lifecycle

import (
	"time"

	"dossier-be/internal/entity"

	"github.com/google/uuid"
)

// OverlayEntry is a status set locally before the record store reflects it.
// Generation is the tracker's refresh generation at the time it was set.
type OverlayEntry struct {
	Status     entity.DocumentStatus
	Generation uint64
}

type Overlay map[uuid.UUID]OverlayEntry

// Merge returns docs with overlaid statuses applied. docs is not modified;
// overlaid documents are copied.
func Merge(docs []*entity.Document, overlay Overlay) []*entity.Document {
	out := make([]*entity.Document, len(docs))
	for i, d := range docs {
		entry, ok := overlay[d.Id]
		if !ok {
			out[i] = d
			continue
		}
		cp := *d
		cp.Status = entry.Status
		out[i] = &cp
	}
	return out
}

// Prune drops the entries set before the refresh that started at generation
// started. Entries set while that refresh was in flight survive it.
func Prune(overlay Overlay, started uint64) Overlay {
	out := make(Overlay, len(overlay))
	for id, entry := range overlay {
		if entry.Generation >= started {
			out[id] = entry
		}
	}
	return out
}

// Stalled reports whether doc has been processing for longer than after
// according to the record store. A zero after disables the check.
func Stalled(doc *entity.Document, now time.Time, after time.Duration) bool {
	if after <= 0 || doc.Status != entity.DocumentStatusProcessing {
		return false
	}
	since := doc.CreatedAt
	if doc.UpdatedAt != nil {
		since = *doc.UpdatedAt
	}
	return now.Sub(since) > after
}
