// Package workspace wires the session, tracker and conversation of one
// opened case file together.
package workspace

import (
	"context"
	"time"

	"dossier-be/internal/entity"
	"dossier-be/internal/pkg/logger"
	"dossier-be/pkg/casefile"
	"dossier-be/pkg/casefile/conversation"
	"dossier-be/pkg/casefile/lifecycle"
	"dossier-be/pkg/casefile/session"
	"dossier-be/pkg/casefile/timeline"

	"github.com/google/uuid"
)

type Deps struct {
	Store     casefile.RecordStore
	Blobs     casefile.BlobStore
	Extractor casefile.Extractor
	Retriever casefile.Retriever
	Logger    logger.ILogger
}

type Workspace struct {
	ID         uuid.UUID
	CaseFileID uuid.UUID

	Session      *session.Session
	Tracker      *lifecycle.Tracker
	Conversation *conversation.Session
}

func New(id, caseFileID uuid.UUID, deps Deps, notifier casefile.Notifier) *Workspace {
	s := session.New(caseFileID, deps.Store)
	return &Workspace{
		ID:         id,
		CaseFileID: caseFileID,
		Session:    s,
		Tracker: lifecycle.NewTracker(s, lifecycle.Config{
			Store:     deps.Store,
			Blobs:     deps.Blobs,
			Extractor: deps.Extractor,
			Notifier:  notifier,
			Logger:    deps.Logger,
		}),
		Conversation: conversation.New(caseFileID, deps.Retriever),
	}
}

// Refresh goes through the tracker so the overlay is reconciled.
func (w *Workspace) Refresh(ctx context.Context) (*session.Snapshot, error) {
	return w.Tracker.Refresh(ctx)
}

// DocumentView is a document as displayed: overlay applied, plus the stalled
// flag computed from the record store's own status.
type DocumentView struct {
	Document *entity.Document
	Stalled  bool
}

type View struct {
	CaseFile   *entity.CaseFile
	Documents  []DocumentView
	Facts      []*entity.Fact
	Timeline   []timeline.Entry
	Transcript []conversation.Message
	Busy       bool
	Input      string
	Refreshed  bool
}

// View assembles what a client shows. Before the first successful refresh
// only the conversation part is filled in.
func (w *Workspace) View(now time.Time, staleAfter time.Duration) View {
	v := View{
		Transcript: w.Conversation.Transcript(),
		Busy:       w.Conversation.Busy(),
		Input:      w.Conversation.Input(),
	}
	snap := w.Session.Snapshot()
	if snap == nil {
		return v
	}

	v.Refreshed = true
	v.CaseFile = snap.CaseFile
	v.Facts = snap.Facts
	v.Timeline = snap.Timeline

	merged := lifecycle.Merge(snap.Documents, w.Tracker.Overlay())
	v.Documents = make([]DocumentView, len(merged))
	for i, d := range merged {
		v.Documents[i] = DocumentView{
			Document: d,
			Stalled:  lifecycle.Stalled(snap.Documents[i], now, staleAfter),
		}
	}
	return v
}

// Close stops the workspace from acting on late results.
func (w *Workspace) Close() {
	w.Tracker.Close()
}
