package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/johnquangdev/meeting-summarizer/internal/adapter/render"
	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/cache"
)

// Extractor produces a transcript from a document artifact.
type Extractor interface {
	Extract(path string) (string, error)
}

// Transcriber produces a transcript from an audio artifact.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Analyzer turns a transcript into a structured analysis result.
type Analyzer interface {
	Analyze(ctx context.Context, apiKey string, transcript string) (*entities.AnalysisResult, error)
}

// RecordStore is the queryable record persistence backing the list API.
type RecordStore interface {
	Save(ctx context.Context, record *entities.MeetingRecord) error
}

// DatasetStore publishes records and rendered documents to the shared dataset.
type DatasetStore interface {
	SaveRecord(ctx context.Context, token string, record *entities.MeetingRecord) error
	UploadPDF(ctx context.Context, token string, recordID string, data []byte) (string, error)
}

// ProcessInput carries one artifact through the pipeline. Credentials are
// per-run: the caller's model API key is required, the dataset token is not.
type ProcessInput struct {
	FileName    string
	Path        string
	MeetingDate time.Time
	OpenAIKey   string
	StoreToken  string
}

// ProcessResult is the outcome of a pipeline run. Render and publish failures
// are carried here rather than failing the run; the record itself is always
// valid once Process returns without error.
type ProcessResult struct {
	Record     *entities.MeetingRecord
	Transcript string
	CacheHit   bool

	PDFPath string
	PDFURL  string

	RenderErr  error
	Persisted  bool
	PersistErr error
}

// Service runs artifacts through the dispatch, extract or transcribe,
// analyze, build, render and persist stages.
type Service struct {
	extractor   Extractor
	transcriber Transcriber
	analyzer    Analyzer
	records     RecordStore
	dataset     DatasetStore
	cache       *cache.AnalysisCache
	logger      *zap.Logger
	outputDir   string
}

// NewService wires the pipeline stages. records, dataset and cache may be
// nil; the corresponding steps are then skipped.
func NewService(
	extractor Extractor,
	transcriber Transcriber,
	analyzer Analyzer,
	records RecordStore,
	dataset DatasetStore,
	analysisCache *cache.AnalysisCache,
	logger *zap.Logger,
) *Service {
	return &Service{
		extractor:   extractor,
		transcriber: transcriber,
		analyzer:    analyzer,
		records:     records,
		dataset:     dataset,
		cache:       analysisCache,
		logger:      logger,
		outputDir:   os.TempDir(),
	}
}

// Process runs one artifact through every stage in order. A stage error
// aborts the run before any downstream stage starts; after the record is
// built, rendering and persistence run concurrently and cannot undo it.
func (s *Service) Process(ctx context.Context, input ProcessInput) (*ProcessResult, error) {
	if input.OpenAIKey == "" {
		return nil, fmt.Errorf("%w: missing model API key", entities.ErrInvalidRequest)
	}

	kind, err := Classify(input.FileName)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if s.logger != nil {
		s.logger.Info("processing artifact",
			zap.String("file_name", input.FileName),
			zap.String("kind", string(kind)))
	}

	transcript, err := s.transcript(ctx, kind, input.Path)
	if err != nil {
		return nil, err
	}

	result := &ProcessResult{Transcript: transcript}

	analysis, hit := s.cachedAnalysis(ctx, transcript)
	result.CacheHit = hit
	if !hit {
		analysis, err = s.analyzer.Analyze(ctx, input.OpenAIKey, transcript)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.cache.Put(ctx, transcript, analysis)
		}
	}

	record := entities.NewMeetingRecord(input.FileName, input.MeetingDate, transcript, analysis)
	result.Record = record

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.render(gctx, input.StoreToken, record, result)
		return nil
	})
	g.Go(func() error {
		s.persist(gctx, input.StoreToken, record, result)
		return nil
	})
	_ = g.Wait()

	if s.logger != nil {
		s.logger.Info("artifact processed",
			zap.String("record_id", record.ID.String()),
			zap.Bool("cache_hit", result.CacheHit),
			zap.Bool("persisted", result.Persisted),
			zap.Duration("elapsed", time.Since(start)))
	}

	return result, nil
}

// transcript yields the text for the artifact kind; documents are extracted,
// audio is transcribed.
func (s *Service) transcript(ctx context.Context, kind entities.ArtifactKind, path string) (string, error) {
	switch kind {
	case entities.KindDocument:
		return s.extractor.Extract(path)
	case entities.KindAudio:
		return s.transcriber.Transcribe(ctx, path)
	default:
		return "", fmt.Errorf("%w: %q", entities.ErrUnsupportedFormat, kind)
	}
}

func (s *Service) cachedAnalysis(ctx context.Context, transcript string) (*entities.AnalysisResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(ctx, transcript)
}

// render produces the PDF and either publishes it to the dataset store or
// drops it next to the process as a temp file. A failure here is reported in
// the result only.
func (s *Service) render(ctx context.Context, token string, record *entities.MeetingRecord, result *ProcessResult) {
	data, err := render.PDF(record)
	if err != nil {
		result.RenderErr = err
		if s.logger != nil {
			s.logger.Warn("render failed", zap.String("record_id", record.ID.String()), zap.Error(err))
		}
		return
	}

	if s.dataset != nil && token != "" {
		url, err := s.dataset.UploadPDF(ctx, token, record.ID.String(), data)
		if err == nil {
			result.PDFURL = url
			return
		}
		if s.logger != nil {
			s.logger.Warn("pdf upload failed, keeping local copy", zap.Error(err))
		}
	}

	path := filepath.Join(s.outputDir, fmt.Sprintf("meeting-summary-%s.pdf", record.ID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		result.RenderErr = fmt.Errorf("%w: %v", entities.ErrRenderFailure, err)
		return
	}
	result.PDFPath = path
}

// persist saves the record to the local store and, when the caller supplied a
// dataset token, publishes it to the dataset with bounded retries. No token
// means the dataset step is skipped, not failed.
func (s *Service) persist(ctx context.Context, token string, record *entities.MeetingRecord, result *ProcessResult) {
	if s.records != nil {
		if err := s.records.Save(ctx, record); err != nil {
			result.PersistErr = err
			if s.logger != nil {
				s.logger.Warn("record store save failed", zap.Error(err))
			}
		}
	}

	if s.dataset == nil || token == "" {
		result.Persisted = false
		return
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 1 * time.Second
	bo.MaxInterval = 10 * time.Second

	err := backoff.Retry(func() error {
		return s.dataset.SaveRecord(ctx, token, record)
	}, backoff.WithContext(backoff.WithMaxRetries(bo, 3), ctx))
	if err != nil {
		result.PersistErr = err
		if s.logger != nil {
			s.logger.Warn("dataset publish failed", zap.String("record_id", record.ID.String()), zap.Error(err))
		}
		return
	}
	result.Persisted = true
}
