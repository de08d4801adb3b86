// Package session holds the authoritative snapshot of one case file.
package session

import (
	"context"
	"fmt"
	"sync"

	"dossier-be/internal/entity"
	"dossier-be/pkg/casefile"
	"dossier-be/pkg/casefile/timeline"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Snapshot is one consistent read of a case file. It carries no timestamps of
// its own so two refreshes over unchanged data are identical.
type Snapshot struct {
	CaseFile  *entity.CaseFile
	Documents []*entity.Document
	Facts     []*entity.Fact
	Timeline  []timeline.Entry
}

// FindDocument returns the snapshot's copy of the document, or nil.
func (s *Snapshot) FindDocument(id uuid.UUID) *entity.Document {
	for _, d := range s.Documents {
		if d.Id == id {
			return d
		}
	}
	return nil
}

type Session struct {
	caseFileID uuid.UUID
	store      casefile.RecordStore

	mu       sync.RWMutex
	snapshot *Snapshot
}

func New(caseFileID uuid.UUID, store casefile.RecordStore) *Session {
	return &Session{caseFileID: caseFileID, store: store}
}

func (s *Session) CaseFileID() uuid.UUID {
	return s.caseFileID
}

// Snapshot returns the last published snapshot, nil before the first
// successful refresh.
func (s *Session) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Refresh re-reads metadata, documents and facts concurrently and publishes a
// new snapshot once all three are in. Overlapping refreshes are allowed; the
// one that completes last is what Snapshot returns. On error the previous
// snapshot stays in place.
func (s *Session) Refresh(ctx context.Context) (*Snapshot, error) {
	var (
		caseFile  *entity.CaseFile
		documents []*entity.Document
		facts     []*entity.Fact
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		caseFile, err = s.store.FindCaseFile(gctx, s.caseFileID)
		return err
	})
	g.Go(func() error {
		var err error
		documents, err = s.store.ListDocuments(gctx, s.caseFileID)
		return err
	})
	g.Go(func() error {
		var err error
		facts, err = s.store.ListFacts(gctx, s.caseFileID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("refresh case file %s: %w", s.caseFileID, err)
	}

	if documents == nil {
		documents = []*entity.Document{}
	}
	if facts == nil {
		facts = []*entity.Fact{}
	}

	snap := &Snapshot{
		CaseFile:  caseFile,
		Documents: documents,
		Facts:     facts,
		Timeline:  timeline.Project(facts),
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	return snap, nil
}
