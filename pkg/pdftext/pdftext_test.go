package pdftext

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractRejectsNonPDF(t *testing.T) {
	_, err := Extract(strings.NewReader("this is not a pdf"))
	assert.Error(t, err)
}

func TestExtractEmptyInput(t *testing.T) {
	_, err := ExtractBytes(nil)
	assert.Error(t, err)
}

func TestNeedsOCR(t *testing.T) {
	assert.True(t, NeedsOCR(""))
	assert.True(t, NeedsOCR("  Page 1 \n\n"))
	assert.True(t, NeedsOCR(strings.Repeat("a", MinTextLayer-1)))
	assert.False(t, NeedsOCR(strings.Repeat("a", MinTextLayer)))
}

func TestNewGeminiOCRNeedsKey(t *testing.T) {
	_, err := NewGeminiOCR(context.Background(), "", "")
	assert.Error(t, err)
}
