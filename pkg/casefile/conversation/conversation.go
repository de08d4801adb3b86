// Package conversation keeps the chat transcript of one case file and allows
// a single question in flight at a time.
package conversation

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"dossier-be/internal/apperror"
	"dossier-be/pkg/casefile"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const errorPrefix = "Error: "

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Session struct {
	caseFileID uuid.UUID
	retriever  casefile.Retriever

	busy atomic.Bool

	mu         sync.Mutex
	transcript []Message
	input      string
}

func New(caseFileID uuid.UUID, retriever casefile.Retriever) *Session {
	return &Session{caseFileID: caseFileID, retriever: retriever}
}

func (s *Session) SetInput(text string) {
	s.mu.Lock()
	s.input = text
	s.mu.Unlock()
}

func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Submit asks whatever is in the input buffer.
func (s *Session) Submit(ctx context.Context) bool {
	return s.Ask(ctx, s.Input())
}

func (s *Session) Busy() bool {
	return s.busy.Load()
}

// Transcript returns a copy of the messages so far.
func (s *Session) Transcript() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Ask appends question, waits for the retriever and appends its answer, or
// an "Error: ..." entry when it fails. A blank question, or one asked while
// another is pending, is dropped and Ask returns false.
//
// The retriever call is detached from ctx's cancellation.
func (s *Session) Ask(ctx context.Context, question string) bool {
	question = strings.TrimSpace(question)
	if question == "" {
		return false
	}
	if !s.busy.CompareAndSwap(false, true) {
		return false
	}
	defer s.busy.Store(false)

	s.append(Message{Role: RoleUser, Content: question}, true)

	answer, err := s.retriever.Answer(context.WithoutCancel(ctx), question, s.caseFileID)
	if err != nil {
		s.append(Message{Role: RoleAssistant, Content: errorPrefix + apperror.Detail(err)}, false)
		return true
	}
	s.append(Message{Role: RoleAssistant, Content: answer}, false)
	return true
}

func (s *Session) append(m Message, clearInput bool) {
	s.mu.Lock()
	s.transcript = append(s.transcript, m)
	if clearInput {
		s.input = ""
	}
	s.mu.Unlock()
}
