package conversation

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"dossier-be/internal/apperror"
	"dossier-be/pkg/casefile/casefiletest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskAppendsQuestionAndAnswer(t *testing.T) {
	cfID := uuid.New()
	var gotCase uuid.UUID
	s := New(cfID, casefiletest.RetrieverFunc(func(ctx context.Context, q string, id uuid.UUID) (string, error) {
		gotCase = id
		return "The claim amounts to EUR 48,000.", nil
	}))
	s.SetInput("What is the claim amount?")

	ok := s.Submit(context.Background())

	require.True(t, ok)
	assert.Equal(t, cfID, gotCase)
	assert.Equal(t, []Message{
		{Role: RoleUser, Content: "What is the claim amount?"},
		{Role: RoleAssistant, Content: "The claim amounts to EUR 48,000."},
	}, s.Transcript())
	assert.Empty(t, s.Input())
	assert.False(t, s.Busy())
}

func TestAskErrorIsAppendedToTranscript(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"service detail", &apperror.ServiceError{Status: 500, Detail: "no chunks indexed"}, "Error: no chunks indexed"},
		{"transport", errors.New("dial tcp: connection refused"), "Error: dial tcp: connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(uuid.New(), casefiletest.RetrieverFunc(func(context.Context, string, uuid.UUID) (string, error) {
				return "", tt.err
			}))

			require.True(t, s.Ask(context.Background(), "first"))
			require.True(t, s.Ask(context.Background(), "second"), "a failure does not block the next question")

			transcript := s.Transcript()
			require.Len(t, transcript, 4)
			assert.Equal(t, Message{Role: RoleAssistant, Content: tt.want}, transcript[1])
			assert.Equal(t, RoleUser, transcript[2].Role)
			assert.False(t, s.Busy())
		})
	}
}

func TestAskIgnoresBlankQuestion(t *testing.T) {
	var calls atomic.Int32
	s := New(uuid.New(), casefiletest.RetrieverFunc(func(context.Context, string, uuid.UUID) (string, error) {
		calls.Add(1)
		return "", nil
	}))

	assert.False(t, s.Ask(context.Background(), ""))
	assert.False(t, s.Ask(context.Background(), "   \n"))
	assert.Empty(t, s.Transcript())
	assert.Zero(t, calls.Load())
}

func TestAskWhileBusyIsDropped(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	s := New(uuid.New(), casefiletest.RetrieverFunc(func(context.Context, string, uuid.UUID) (string, error) {
		calls.Add(1)
		close(started)
		<-release
		return "42", nil
	}))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Ask(context.Background(), "first question")
	}()
	<-started

	assert.True(t, s.Busy())
	before := len(s.Transcript())
	s.SetInput("What is the claim amount?")

	assert.False(t, s.Submit(context.Background()))
	assert.Len(t, s.Transcript(), before, "transcript unchanged")
	assert.Equal(t, "What is the claim amount?", s.Input(), "rejected input stays in the buffer")

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "no duplicate request")
	assert.Len(t, s.Transcript(), 2)
	assert.False(t, s.Busy())
}

func TestTranscriptIsACopy(t *testing.T) {
	s := New(uuid.New(), casefiletest.RetrieverFunc(func(context.Context, string, uuid.UUID) (string, error) {
		return "ok", nil
	}))
	s.Ask(context.Background(), "q")

	tr := s.Transcript()
	tr[0].Content = "changed"

	assert.Equal(t, "q", s.Transcript()[0].Content)
}
