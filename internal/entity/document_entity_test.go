package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentStatusTransitions(t *testing.T) {
	all := []DocumentStatus{
		DocumentStatusToProcess,
		DocumentStatusProcessing,
		DocumentStatusProcessed,
		DocumentStatusFailed,
	}
	allowed := map[[2]DocumentStatus]bool{
		{DocumentStatusToProcess, DocumentStatusProcessing}: true,
		{DocumentStatusProcessing, DocumentStatusProcessed}: true,
		{DocumentStatusProcessing, DocumentStatusFailed}:    true,
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]DocumentStatus{from, to}], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestDocumentStatusTerminal(t *testing.T) {
	assert.False(t, DocumentStatusToProcess.Terminal())
	assert.False(t, DocumentStatusProcessing.Terminal())
	assert.True(t, DocumentStatusProcessed.Terminal())
	assert.True(t, DocumentStatusFailed.Terminal())
}

func TestParseDocumentStatus(t *testing.T) {
	s, err := ParseDocumentStatus("processed")
	assert.NoError(t, err)
	assert.Equal(t, DocumentStatusProcessed, s)

	_, err = ParseDocumentStatus("done")
	assert.Error(t, err)
	_, err = ParseDocumentStatus("")
	assert.Error(t, err)
}
