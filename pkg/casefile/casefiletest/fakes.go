// Package casefiletest provides in-memory collaborators for tests.
package casefiletest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"dossier-be/internal/apperror"
	"dossier-be/internal/entity"
	"dossier-be/pkg/casefile"
	"dossier-be/pkg/casefile/timeline"

	"github.com/google/uuid"
)

// Store is a RecordStore backed by maps. Errors injected through the Fail*
// fields are returned by the matching call.
type Store struct {
	mu        sync.Mutex
	caseFiles map[uuid.UUID]*entity.CaseFile
	documents map[uuid.UUID]*entity.Document
	facts     []*entity.Fact

	FailFind   error
	FailList   error
	FailInsert error

	Reads int
}

func NewStore() *Store {
	return &Store{
		caseFiles: make(map[uuid.UUID]*entity.CaseFile),
		documents: make(map[uuid.UUID]*entity.Document),
	}
}

func (s *Store) PutCaseFile(cf *entity.CaseFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caseFiles[cf.Id] = cf
}

func (s *Store) PutDocument(doc *entity.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *doc
	s.documents[doc.Id] = &cp
}

func (s *Store) SetStatus(id uuid.UUID, status entity.DocumentStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.documents[id]; ok {
		d.Status = status
	}
}

func (s *Store) AddFacts(facts ...*entity.Fact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facts = append(s.facts, facts...)
}

func (s *Store) FindCaseFile(ctx context.Context, id uuid.UUID) (*entity.CaseFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reads++
	if s.FailFind != nil {
		return nil, s.FailFind
	}
	cf, ok := s.caseFiles[id]
	if !ok {
		return nil, apperror.ErrCaseFileNotFound
	}
	cp := *cf
	return &cp, nil
}

func (s *Store) ListDocuments(ctx context.Context, caseFileID uuid.UUID) ([]*entity.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailList != nil {
		return nil, s.FailList
	}
	var out []*entity.Document
	for _, d := range s.documents {
		if d.CaseFileId == caseFileID {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Id.String() < out[j].Id.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) ListFacts(ctx context.Context, caseFileID uuid.UUID) ([]*entity.Fact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailList != nil {
		return nil, s.FailList
	}
	var out []*entity.Fact
	for _, f := range s.facts {
		if f.CaseFileId == caseFileID {
			out = append(out, f)
		}
	}
	timeline.SortFacts(out)
	return out, nil
}

func (s *Store) InsertDocument(ctx context.Context, doc *entity.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailInsert != nil {
		return s.FailInsert
	}
	cp := *doc
	s.documents[doc.Id] = &cp
	return nil
}

// Blobs is a BlobStore that keeps uploads in memory.
type Blobs struct {
	mu    sync.Mutex
	files map[string][]byte

	FailUpload error
}

func NewBlobs() *Blobs {
	return &Blobs{files: make(map[string][]byte)}
}

func (b *Blobs) Upload(ctx context.Context, path string, r io.Reader) error {
	if b.FailUpload != nil {
		return b.FailUpload
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.files[path] = data
	return nil
}

func (b *Blobs) PublicURL(path string) string {
	return "http://blobs.test/" + path
}

func (b *Blobs) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.files[path]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *Blobs) Paths() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.files))
	for p := range b.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

type ExtractorFunc func(ctx context.Context, documentID uuid.UUID) (int, error)

func (f ExtractorFunc) Extract(ctx context.Context, documentID uuid.UUID) (int, error) {
	return f(ctx, documentID)
}

type RetrieverFunc func(ctx context.Context, question string, caseFileID uuid.UUID) (string, error)

func (f RetrieverFunc) Answer(ctx context.Context, question string, caseFileID uuid.UUID) (string, error) {
	return f(ctx, question, caseFileID)
}

// Recorder collects notifications.
type Recorder struct {
	mu  sync.Mutex
	got []casefile.Notification
}

func (r *Recorder) Notify(n casefile.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

func (r *Recorder) All() []casefile.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]casefile.Notification(nil), r.got...)
}
