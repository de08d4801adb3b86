// Package lifecycle tracks document processing status for one case file:
// uploads, processing requests and the optimistic Processing overlay.
package lifecycle

import (
	"context"
	"fmt"
	"io"
	"path"
	"sync"
	"sync/atomic"
	"time"

	"dossier-be/internal/apperror"
	"dossier-be/internal/entity"
	"dossier-be/internal/pkg/logger"
	"dossier-be/pkg/casefile"
	"dossier-be/pkg/casefile/session"

	"github.com/google/uuid"
)

const blobTimestampLayout = "2006-01-02T15:04:05.000Z"

type Config struct {
	Store     casefile.RecordStore
	Blobs     casefile.BlobStore
	Extractor casefile.Extractor
	Notifier  casefile.Notifier
	Logger    logger.ILogger
	Now       func() time.Time
}

type Tracker struct {
	session   *session.Session
	store     casefile.RecordStore
	blobs     casefile.BlobStore
	extractor casefile.Extractor
	notifier  casefile.Notifier
	logger    logger.ILogger
	now       func() time.Time

	mu         sync.Mutex
	overlay    Overlay
	generation uint64

	inflight sync.WaitGroup
	closed   atomic.Bool
}

func NewTracker(s *session.Session, cfg Config) *Tracker {
	if cfg.Notifier == nil {
		cfg.Notifier = casefile.Discard
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNopLogger()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Tracker{
		session:   s,
		store:     cfg.Store,
		blobs:     cfg.Blobs,
		extractor: cfg.Extractor,
		notifier:  cfg.Notifier,
		logger:    cfg.Logger,
		now:       cfg.Now,
		overlay:   make(Overlay),
	}
}

// Refresh reloads the session and, on success, discards overlay entries set
// before this refresh started.
func (t *Tracker) Refresh(ctx context.Context) (*session.Snapshot, error) {
	t.mu.Lock()
	t.generation++
	started := t.generation
	t.mu.Unlock()

	snap, err := t.session.Refresh(ctx)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.overlay = Prune(t.overlay, started)
	t.mu.Unlock()
	return snap, nil
}

// Documents is the current snapshot's document list with the overlay applied.
func (t *Tracker) Documents() []*entity.Document {
	snap := t.session.Snapshot()
	if snap == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return Merge(snap.Documents, t.overlay)
}

// Overlay returns a copy of the pending local statuses.
func (t *Tracker) Overlay() Overlay {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(Overlay, len(t.overlay))
	for id, entry := range t.overlay {
		out[id] = entry
	}
	return out
}

// Status returns the effective status of a document in the current snapshot.
func (t *Tracker) Status(documentID uuid.UUID) (entity.DocumentStatus, bool) {
	snap := t.session.Snapshot()
	if snap == nil {
		return "", false
	}
	doc := snap.FindDocument(documentID)
	if doc == nil {
		return "", false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.effectiveLocked(doc), true
}

func (t *Tracker) effectiveLocked(doc *entity.Document) entity.DocumentStatus {
	if entry, ok := t.overlay[doc.Id]; ok {
		return entry.Status
	}
	return doc.Status
}

// RequestProcessing flips a ToProcess document to Processing locally and
// sends it to the extractor in the background. It returns false, without
// contacting the extractor, when the document is unknown or not ToProcess.
//
// When the extractor answers, the tracker refreshes and then notifies. A
// failure is never turned into a local Failed status; the record store
// decides what the document shows after the refresh.
func (t *Tracker) RequestProcessing(ctx context.Context, documentID uuid.UUID) bool {
	if t.closed.Load() {
		return false
	}
	snap := t.session.Snapshot()
	if snap == nil {
		return false
	}
	doc := snap.FindDocument(documentID)
	if doc == nil {
		return false
	}

	t.mu.Lock()
	current := t.effectiveLocked(doc)
	if !current.CanTransitionTo(entity.DocumentStatusProcessing) {
		t.mu.Unlock()
		return false
	}
	t.overlay[documentID] = OverlayEntry{Status: entity.DocumentStatusProcessing, Generation: t.generation}
	t.mu.Unlock()

	t.inflight.Add(1)
	go t.dispatch(context.WithoutCancel(ctx), documentID, doc.Name)
	return true
}

func (t *Tracker) dispatch(ctx context.Context, documentID uuid.UUID, name string) {
	defer t.inflight.Done()

	count, err := t.extractor.Extract(ctx, documentID)
	if t.closed.Load() {
		return
	}

	if _, rerr := t.Refresh(ctx); rerr != nil {
		t.logger.Warn("Lifecycle", "Refresh after processing failed", map[string]interface{}{
			"document_id": documentID.String(),
			"error":       rerr.Error(),
		})
	}

	id := documentID
	if err != nil {
		t.logger.Error("Lifecycle", "Processing request failed", map[string]interface{}{
			"document_id": documentID.String(),
			"error":       err.Error(),
		})
		t.notifier.Notify(casefile.Notification{
			Kind:       casefile.KindProcessingFailed,
			Level:      casefile.LevelError,
			DocumentID: &id,
			Message:    apperror.Detail(err),
		})
		return
	}

	t.notifier.Notify(casefile.Notification{
		Kind:       casefile.KindProcessingSucceeded,
		Level:      casefile.LevelInfo,
		DocumentID: &id,
		Message:    fmt.Sprintf("%d facts extracted from %s", count, name),
		Facts:      count,
	})
}

// BlobPath is where an upload of filename is stored for a case file.
func BlobPath(caseFileID uuid.UUID, at time.Time, filename string) string {
	return fmt.Sprintf("%s/%s_%s", caseFileID, at.UTC().Format(blobTimestampLayout), path.Base(filename))
}

// Upload stores the blob, then records a ToProcess document pointing at it.
// There is no rollback: if the record insert fails the blob stays orphaned.
// A closed tracker refuses uploads.
func (t *Tracker) Upload(ctx context.Context, filename string, r io.Reader) (*entity.Document, error) {
	name := path.Base(filename)
	if t.closed.Load() {
		return nil, fmt.Errorf("upload %s: %w", name, apperror.ErrWorkspaceNotFound)
	}
	caseFileID := t.session.CaseFileID()
	now := t.now()
	blobPath := BlobPath(caseFileID, now, name)

	if err := t.blobs.Upload(ctx, blobPath, r); err != nil {
		t.notifyUploadFailed(name, err)
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}

	doc := &entity.Document{
		Id:          uuid.New(),
		CaseFileId:  caseFileID,
		Name:        name,
		FileUrl:     t.blobs.PublicURL(blobPath),
		StoragePath: blobPath,
		Status:      entity.DocumentStatusToProcess,
		CreatedAt:   now,
	}
	if err := t.store.InsertDocument(ctx, doc); err != nil {
		t.logger.Warn("Lifecycle", "Document insert failed, blob orphaned", map[string]interface{}{
			"path":  blobPath,
			"error": err.Error(),
		})
		t.notifyUploadFailed(name, err)
		return nil, fmt.Errorf("record %s: %w", name, err)
	}

	if _, err := t.Refresh(ctx); err != nil {
		t.logger.Warn("Lifecycle", "Refresh after upload failed", map[string]interface{}{
			"document_id": doc.Id.String(),
			"error":       err.Error(),
		})
	}

	id := doc.Id
	t.notifier.Notify(casefile.Notification{
		Kind:       casefile.KindUploadSucceeded,
		Level:      casefile.LevelInfo,
		DocumentID: &id,
		Message:    fmt.Sprintf("%s uploaded", name),
	})
	return doc, nil
}

func (t *Tracker) notifyUploadFailed(name string, err error) {
	t.notifier.Notify(casefile.Notification{
		Kind:    casefile.KindUploadFailed,
		Level:   casefile.LevelError,
		Message: fmt.Sprintf("upload of %s failed: %s", name, apperror.Detail(err)),
	})
}

// Wait blocks until every dispatched processing request has completed.
func (t *Tracker) Wait() {
	t.inflight.Wait()
}

// Close makes the tracker ignore results that arrive afterwards. Requests
// already sent to the extractor are not aborted.
func (t *Tracker) Close() {
	t.closed.Store(true)
}
