package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"dossier-be/internal/apperror"
	"dossier-be/internal/dto"
	"dossier-be/internal/entity"
	"dossier-be/internal/pkg/logger"
	"dossier-be/internal/repository/specification"
	"dossier-be/internal/repository/unitofwork"
	"dossier-be/pkg/casefile"
	"dossier-be/pkg/events"
	"dossier-be/pkg/llm"
	"dossier-be/pkg/pdftext"

	"github.com/google/uuid"
)

const factDateLayout = "2006-01-02"

// BlobReader opens a stored upload by its storage path.
type BlobReader interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// IExtractionService turns an uploaded document into facts. It satisfies
// casefile.Extractor, so workspaces can call it in-process.
type IExtractionService interface {
	Extract(ctx context.Context, documentID uuid.UUID) (int, error)
}

var _ casefile.Extractor = (IExtractionService)(nil)

type extractionService struct {
	uowFactory unitofwork.RepositoryFactory
	blobs      BlobReader
	llm        llm.LLMProvider
	model      string
	publisher  IPublisherService
	events     events.Publisher
	logger     logger.ILogger
	ocr        pdftext.OCR

	extractText func(io.Reader) (string, error)
}

func NewExtractionService(
	uowFactory unitofwork.RepositoryFactory,
	blobs BlobReader,
	llmProvider llm.LLMProvider,
	model string,
	publisher IPublisherService,
	eventPublisher events.Publisher,
	ocr pdftext.OCR,
	log logger.ILogger,
) IExtractionService {
	if eventPublisher == nil {
		eventPublisher = events.Nop
	}
	return &extractionService{
		uowFactory: uowFactory,
		blobs:      blobs,
		llm:        llmProvider,
		model:      model,
		publisher:  publisher,
		events:     eventPublisher,
		logger:     log,
		ocr:        ocr,

		extractText: pdftext.Extract,
	}
}

// Extract moves a ToProcess document to Processing, extracts its facts and
// finishes in Processed. Any failure after the document left ToProcess
// leaves it Failed.
func (s *extractionService) Extract(ctx context.Context, documentID uuid.UUID) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: documentID})
	if err != nil {
		return 0, fmt.Errorf("load document: %w", err)
	}
	if doc == nil {
		return 0, apperror.ErrDocumentNotFound
	}
	if doc.Status != entity.DocumentStatusToProcess {
		return 0, fmt.Errorf("document is %s: %w", doc.Status, apperror.ErrInvalidTransition)
	}

	ok, err := uow.DocumentRepository().TransitionStatus(ctx, doc.Id, entity.DocumentStatusToProcess, entity.DocumentStatusProcessing)
	if err != nil {
		return 0, fmt.Errorf("mark processing: %w", err)
	}
	if !ok {
		return 0, fmt.Errorf("document was picked up concurrently: %w", apperror.ErrInvalidTransition)
	}
	s.logger.Info("Extraction", "Document processing started", map[string]interface{}{"document_id": doc.Id.String()})

	count, err := s.process(ctx, doc)
	if err != nil {
		s.fail(context.WithoutCancel(ctx), doc, err)
		return 0, err
	}
	return count, nil
}

func (s *extractionService) process(ctx context.Context, doc *entity.Document) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	category := entity.CategoryGeneral
	caseFile, err := uow.CaseFileRepository().FindOne(ctx, specification.ByID{ID: doc.CaseFileId})
	if err != nil {
		return 0, fmt.Errorf("load case file: %w", err)
	}
	if caseFile != nil && caseFile.Category != "" {
		category = caseFile.Category
	}

	text, err := s.readText(ctx, doc)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(text) == "" {
		return 0, apperror.ErrEmptyDocument
	}

	if err := uow.DocumentRepository().UpdateRawText(ctx, doc.Id, text); err != nil {
		return 0, fmt.Errorf("store raw text: %w", err)
	}

	reply, err := s.llm.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: extractionPromptFor(category)},
		{Role: llm.RoleUser, Content: extractionUserPrefix + text},
	}, llm.WithJSON(), llm.WithModel(s.model), llm.WithTemperature(0))
	if err != nil {
		return 0, fmt.Errorf("fact extraction: %w", err)
	}

	facts, err := ParseFacts(reply, doc)
	if err != nil {
		return 0, err
	}

	if len(facts) > 0 {
		if err := uow.Begin(ctx); err != nil {
			return 0, err
		}
		defer uow.Rollback()

		if err := uow.FactRepository().CreateBulk(ctx, facts); err != nil {
			return 0, fmt.Errorf("store facts: %w", err)
		}
		if err := uow.Commit(); err != nil {
			return 0, fmt.Errorf("store facts: %w", err)
		}
	}

	s.requestIndexing(ctx, doc.Id)

	ok, err := uow.DocumentRepository().TransitionStatus(ctx, doc.Id, entity.DocumentStatusProcessing, entity.DocumentStatusProcessed)
	if err != nil {
		return 0, fmt.Errorf("mark processed: %w", err)
	}
	if !ok {
		s.logger.Warn("Extraction", "Document left Processing while being extracted", map[string]interface{}{"document_id": doc.Id.String()})
	}

	s.publish(ctx, events.New(events.DocumentProcessed, map[string]interface{}{
		"document_id":  doc.Id.String(),
		"case_file_id": doc.CaseFileId.String(),
		"facts":        len(facts),
	}))
	s.logger.Info("Extraction", "Document processed", map[string]interface{}{
		"document_id": doc.Id.String(),
		"category":    category,
		"facts":       len(facts),
	})
	return len(facts), nil
}

// readText treats an unparsable PDF like an empty one; only a missing blob
// is an error of its own. A thin text layer goes through OCR when one is
// configured, and the OCR text replaces it unless OCR comes back empty.
func (s *extractionService) readText(ctx context.Context, doc *entity.Document) (string, error) {
	rc, err := s.blobs.Open(ctx, doc.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", doc.StoragePath, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", doc.StoragePath, err)
	}

	text, err := s.extractText(bytes.NewReader(data))
	if err != nil {
		s.logger.Warn("Extraction", "PDF text extraction failed", map[string]interface{}{
			"document_id": doc.Id.String(),
			"error":       err.Error(),
		})
		text = ""
	}

	if s.ocr == nil || !pdftext.NeedsOCR(text) {
		return text, nil
	}

	s.logger.Info("Extraction", "Text layer too thin, running OCR", map[string]interface{}{
		"document_id": doc.Id.String(),
		"chars":       len(strings.TrimSpace(text)),
	})
	recognized, err := s.ocr.Recognize(ctx, data)
	if err != nil {
		s.logger.Warn("Extraction", "OCR failed", map[string]interface{}{
			"document_id": doc.Id.String(),
			"error":       err.Error(),
		})
		return text, nil
	}
	if strings.TrimSpace(recognized) == "" {
		return text, nil
	}
	return recognized, nil
}

func (s *extractionService) requestIndexing(ctx context.Context, documentID uuid.UUID) {
	payload, err := json.Marshal(dto.PublishEmbedDocumentMessage{DocumentId: documentID})
	if err == nil {
		err = s.publisher.Publish(ctx, payload)
	}
	if err != nil {
		s.logger.Warn("Extraction", "Failed to queue document indexing", map[string]interface{}{
			"document_id": documentID.String(),
			"error":       err.Error(),
		})
	}
}

func (s *extractionService) fail(ctx context.Context, doc *entity.Document, cause error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := uow.DocumentRepository().TransitionStatus(ctx, doc.Id, entity.DocumentStatusProcessing, entity.DocumentStatusFailed); err != nil {
		s.logger.Error("Extraction", "Failed to mark document failed", map[string]interface{}{
			"document_id": doc.Id.String(),
			"error":       err.Error(),
		})
	}

	s.publish(ctx, events.New(events.DocumentFailed, map[string]interface{}{
		"document_id":  doc.Id.String(),
		"case_file_id": doc.CaseFileId.String(),
		"reason":       cause.Error(),
	}))
	s.logger.Error("Extraction", "Document processing failed", map[string]interface{}{
		"document_id": doc.Id.String(),
		"error":       cause.Error(),
	})
}

func (s *extractionService) publish(ctx context.Context, event events.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("Extraction", "Failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

// ParseFacts reads the model's {"facts": [...]} reply. Dates that are not
// YYYY-MM-DD and blank fields become nil.
func ParseFacts(reply string, doc *entity.Document) ([]*entity.Fact, error) {
	body := reply
	if start, end := strings.Index(reply, "{"), strings.LastIndex(reply, "}"); start >= 0 && end > start {
		body = reply[start : end+1]
	}

	var parsed dto.ExtractedFacts
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return nil, fmt.Errorf("decode extracted facts: %w", err)
	}

	documentID := doc.Id
	facts := make([]*entity.Fact, 0, len(parsed.Facts))
	for _, f := range parsed.Facts {
		facts = append(facts, &entity.Fact{
			Id:          uuid.New(),
			CaseFileId:  doc.CaseFileId,
			DocumentId:  &documentID,
			EventDate:   parseFactDate(f.EventDate),
			EventType:   nonBlank(f.EventType),
			Actors:      nonBlank(f.Actors),
			Description: nonBlank(f.Description),
		})
	}
	return facts, nil
}

func parseFactDate(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	t, err := time.Parse(factDateLayout, strings.TrimSpace(*raw))
	if err != nil {
		return nil
	}
	return &t
}

func nonBlank(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" || strings.EqualFold(v, "null") {
		return nil
	}
	return &v
}

