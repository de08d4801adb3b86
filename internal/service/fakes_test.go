package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"dossier-be/internal/entity"
	"dossier-be/internal/repository/contract"
	"dossier-be/internal/repository/specification"
	"dossier-be/internal/repository/unitofwork"
	"dossier-be/pkg/events"
	"dossier-be/pkg/llm"

	"github.com/google/uuid"
)

// memDB is an in-memory stand-in for the Postgres-backed unit of work.
// Writes are applied immediately; Commit only counts.
type memDB struct {
	mu        sync.Mutex
	caseFiles map[uuid.UUID]*entity.CaseFile
	documents map[uuid.UUID]*entity.Document
	facts     []*entity.Fact
	chunks    []*entity.DocumentChunk

	scored []*contract.ScoredDocumentChunk

	failFactInsert  error
	failChunkInsert error
	failSearch      error

	commits int
}

func newMemDB() *memDB {
	return &memDB{
		caseFiles: make(map[uuid.UUID]*entity.CaseFile),
		documents: make(map[uuid.UUID]*entity.Document),
	}
}

func (db *memDB) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memUoW{db: db}
}

func (db *memDB) document(id uuid.UUID) entity.Document {
	db.mu.Lock()
	defer db.mu.Unlock()
	return *db.documents[id]
}

func (db *memDB) factCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.facts)
}

func specID(specs []specification.Specification) (uuid.UUID, bool) {
	for _, s := range specs {
		if byID, ok := s.(specification.ByID); ok {
			return byID.ID, true
		}
	}
	return uuid.Nil, false
}

type memUoW struct {
	db *memDB
}

func (u *memUoW) Begin(ctx context.Context) error { return nil }
func (u *memUoW) Rollback() error                 { return nil }
func (u *memUoW) Commit() error {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	u.db.commits++
	return nil
}

func (u *memUoW) CaseFileRepository() contract.CaseFileRepository { return memCaseFiles{u.db} }
func (u *memUoW) DocumentRepository() contract.DocumentRepository { return memDocuments{u.db} }
func (u *memUoW) FactRepository() contract.FactRepository         { return memFacts{u.db} }
func (u *memUoW) DocumentChunkRepository() contract.DocumentChunkRepository {
	return memChunks{u.db}
}

type memCaseFiles struct{ db *memDB }

func (r memCaseFiles) Create(ctx context.Context, cf *entity.CaseFile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *cf
	r.db.caseFiles[cf.Id] = &cp
	return nil
}

func (r memCaseFiles) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CaseFile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	id, _ := specID(specs)
	cf, ok := r.db.caseFiles[id]
	if !ok {
		return nil, nil
	}
	cp := *cf
	return &cp, nil
}

func (r memCaseFiles) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CaseFile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*entity.CaseFile, 0, len(r.db.caseFiles))
	for _, cf := range r.db.caseFiles {
		cp := *cf
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memCaseFiles) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.caseFiles)), nil
}

type memDocuments struct{ db *memDB }

func (r memDocuments) Create(ctx context.Context, d *entity.Document) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *d
	r.db.documents[d.Id] = &cp
	return nil
}

func (r memDocuments) Update(ctx context.Context, d *entity.Document) error {
	return r.Create(ctx, d)
}

func (r memDocuments) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.DocumentStatus) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	d, ok := r.db.documents[id]
	if !ok || d.Status != from || !from.CanTransitionTo(to) {
		return false, nil
	}
	d.Status = to
	return true, nil
}

func (r memDocuments) UpdateRawText(ctx context.Context, id uuid.UUID, rawText string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if d, ok := r.db.documents[id]; ok {
		d.RawText = rawText
	}
	return nil
}

func (r memDocuments) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	id, _ := specID(specs)
	d, ok := r.db.documents[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r memDocuments) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Document
	for _, d := range r.db.documents {
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

type memFacts struct{ db *memDB }

func (r memFacts) CreateBulk(ctx context.Context, facts []*entity.Fact) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failFactInsert != nil {
		return r.db.failFactInsert
	}
	r.db.facts = append(r.db.facts, facts...)
	return nil
}

func (r memFacts) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Fact, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return append([]*entity.Fact(nil), r.db.facts...), nil
}

func (r memFacts) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.facts)), nil
}

type memChunks struct{ db *memDB }

func (r memChunks) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failChunkInsert != nil {
		return r.db.failChunkInsert
	}
	r.db.chunks = append(r.db.chunks, chunks...)
	return nil
}

func (r memChunks) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	kept := r.db.chunks[:0]
	for _, c := range r.db.chunks {
		if c.DocumentId != documentId {
			kept = append(kept, c)
		}
	}
	r.db.chunks = kept
	return nil
}

func (r memChunks) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.chunks)), nil
}

func (r memChunks) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, caseFileId uuid.UUID, threshold float64) ([]*contract.ScoredDocumentChunk, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failSearch != nil {
		return nil, r.db.failSearch
	}
	return r.db.scored, nil
}

// stubLLM returns reply (or err) and records the messages it was given.
type stubLLM struct {
	mu      sync.Mutex
	reply   string
	err     error
	history []llm.Message
	options *llm.Options
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = history
	s.options = llm.Apply(options...)
	return s.reply, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}

type stubEmbedder struct {
	mu    sync.Mutex
	tasks []string
	err   error
}

func (s *stubEmbedder) Generate(ctx context.Context, text string, taskType string) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, taskType)
	if s.err != nil {
		return nil, s.err
	}
	return []float32{1, 0, 0}, nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *recordingPublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

type recordingEvents struct {
	mu   sync.Mutex
	sent []events.Event
}

func (p *recordingEvents) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, e)
	return nil
}

func (p *recordingEvents) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.sent))
	for i, e := range p.sent {
		out[i] = e.EventType()
	}
	return out
}

type memBlobs map[string][]byte

func (b memBlobs) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	data, ok := b[path]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
