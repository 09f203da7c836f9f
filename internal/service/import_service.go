package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"sigma-lms-be/internal/config"
	"sigma-lms-be/internal/dto"
	"sigma-lms-be/internal/entity"
	"sigma-lms-be/internal/pkg/logger"
	"sigma-lms-be/internal/repository/memory"
	"sigma-lms-be/internal/repository/specification"
	"sigma-lms-be/internal/repository/unitofwork"
	"sigma-lms-be/pkg/classify"
	"sigma-lms-be/pkg/docimport"
	"sigma-lms-be/pkg/events"
	"sigma-lms-be/pkg/segment"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

var tracer = otel.Tracer("sigma-lms-be/internal/service")

// Caller identifies who runs an import.
type Caller struct {
	UserId uuid.UUID
	Role   string
}

// EventPublisher sends events to other services.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IImportService interface {
	Import(ctx context.Context, caller Caller, uploads []docimport.RawUpload) (*dto.ImportCourseResponse, error)
	History(ctx context.Context, userId uuid.UUID, req *dto.ImportHistoryRequest) (*dto.ImportHistoryResponse, error)
	ImportJob(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ImportJobResponse, error)
}

type importService struct {
	cfg            config.ImportConfig
	reader         *docimport.Reader
	analyzer       *classify.Analyzer
	parseGate      *semaphore.Weighted
	cache          *memory.CanonicalCache
	limiter        IRateLimiter
	publisher      IPublisherService
	eventPublisher EventPublisher
	uowFactory     unitofwork.RepositoryFactory
	logger         logger.ILogger
}

// NewImportService wires the pipeline. cache, limiter, publisher,
// eventPublisher and uowFactory are optional and may be nil.
func NewImportService(
	cfg config.ImportConfig,
	reader *docimport.Reader,
	analyzer *classify.Analyzer,
	cache *memory.CanonicalCache,
	limiter IRateLimiter,
	publisher IPublisherService,
	eventPublisher EventPublisher,
	uowFactory unitofwork.RepositoryFactory,
	logger logger.ILogger,
) IImportService {
	weight := int64(cfg.ParseConcurrency)
	if weight <= 0 {
		weight = 1
	}
	return &importService{
		cfg:            cfg,
		reader:         reader,
		analyzer:       analyzer,
		parseGate:      semaphore.NewWeighted(weight),
		cache:          cache,
		limiter:        limiter,
		publisher:      publisher,
		eventPublisher: eventPublisher,
		uowFactory:     uowFactory,
		logger:         logger,
	}
}

func (s *importService) Import(ctx context.Context, caller Caller, uploads []docimport.RawUpload) (res *dto.ImportCourseResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("IMPORT", "Recovered from panic", map[string]interface{}{
				"user_id": caller.UserId.String(),
				"panic":   fmt.Sprint(r),
				"stack":   string(debug.Stack()),
			})
			res, err = nil, ErrInternal
		}
	}()

	// 1. Batch shape
	if len(uploads) == 0 {
		return nil, ErrNoFiles
	}
	if s.cfg.MaxFiles > 0 && len(uploads) > s.cfg.MaxFiles {
		return nil, &docimport.BatchTooLargeError{Limit: s.cfg.MaxFiles, Actual: len(uploads)}
	}

	// 2. Rate limit
	if s.limiter != nil {
		allowed, limitErr := s.limiter.Allow(ctx, caller.UserId.String())
		if limitErr != nil {
			s.logger.Warn("IMPORT", "Rate limiter unavailable, allowing request", map[string]interface{}{
				"user_id": caller.UserId.String(),
				"error":   limitErr.Error(),
			})
		} else if !allowed {
			return nil, ErrRateLimited
		}
	}

	ctx, span := tracer.Start(ctx, "import.course", trace.WithAttributes(
		attribute.String("import.user_id", caller.UserId.String()),
		attribute.Int("import.files", len(uploads)),
	))
	defer span.End()

	// 3. Read and segment each file in upload order
	var (
		files         []classify.File
		failures      []dto.FileFailure
		sectionsCount int
	)
	for _, upload := range uploads {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		doc, sections, fileErr := s.processFile(ctx, upload)
		if fileErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			failures = append(failures, toFailure(upload.FileName, fileErr))
			s.logger.Warn("IMPORT", "File skipped", map[string]interface{}{
				"user_id":   caller.UserId.String(),
				"file_name": upload.FileName,
				"error":     errorDetail(fileErr),
			})
			continue
		}
		sectionsCount += len(sections)
		files = append(files, classify.File{
			Title:    doc.SuggestedTitle,
			HTML:     doc.HTML,
			FileName: upload.FileName,
		})
	}

	if len(files) == 0 {
		span.SetStatus(codes.Error, "no file imported")
		s.publishAudit(ctx, caller, dto.ImportCompletedMessage{
			UserId:    caller.UserId,
			FileCount: len(uploads),
			Failures:  failures,
		})
		return nil, &ImportFailedError{Failures: failures}
	}

	// 4. Classify, order and title
	ordered := s.analyzer.Order(files)
	courseTitle := classify.SuggestCourseTitle(ordered)

	res = &dto.ImportCourseResponse{
		Success:       true,
		CourseTitle:   courseTitle,
		Lessons:       s.buildLessons(ordered),
		SectionsCount: sectionsCount,
		Analysis:      make([]dto.FileAnalysis, len(ordered)),
		Failures:      failures,
	}
	for i, f := range ordered {
		res.Analysis[i] = dto.FileAnalysis{
			FileName:    f.FileName,
			Title:       f.Title,
			WordCount:   f.WordCount,
			ContentType: string(f.ContentType),
		}
	}
	if res.Failures == nil {
		res.Failures = []dto.FileFailure{}
	}

	span.SetAttributes(
		attribute.Int("import.lessons", len(res.Lessons)),
		attribute.Int("import.failures", len(failures)),
	)

	// 5. Notify
	s.publishAudit(ctx, caller, dto.ImportCompletedMessage{
		UserId:        caller.UserId,
		CourseTitle:   courseTitle,
		FileCount:     len(uploads),
		LessonCount:   len(res.Lessons),
		SectionsCount: sectionsCount,
		Analysis:      res.Analysis,
		Failures:      failures,
	})
	s.publishEvent(ctx, caller, res)

	s.logger.Info("IMPORT", "Course imported", map[string]interface{}{
		"user_id":        caller.UserId.String(),
		"course_title":   courseTitle,
		"files":          len(uploads),
		"lessons":        len(res.Lessons),
		"sections_count": sectionsCount,
		"failures":       len(failures),
	})

	return res, nil
}

// processFile reads one upload under the parse gate and segments it.
func (s *importService) processFile(ctx context.Context, upload docimport.RawUpload) (docimport.CanonicalDocument, []segment.Section, error) {
	ctx, span := tracer.Start(ctx, "import.file", trace.WithAttributes(
		attribute.String("file.name", upload.FileName),
		attribute.Int("file.size", len(upload.Data)),
	))
	defer span.End()

	doc, err := s.read(ctx, upload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return docimport.CanonicalDocument{}, nil, err
	}

	sections := segment.Split(doc, s.cfg.SectionMaxChars)
	if len(sections) == 0 {
		err := fmt.Errorf("%s: %w", upload.FileName, docimport.ErrEmptyDocument)
		span.RecordError(err)
		span.SetStatus(codes.Error, "empty document")
		return docimport.CanonicalDocument{}, nil, err
	}
	span.SetAttributes(attribute.Int("file.sections", len(sections)))
	return doc, sections, nil
}

func (s *importService) read(ctx context.Context, upload docimport.RawUpload) (docimport.CanonicalDocument, error) {
	var key string
	if s.cache != nil {
		key = memory.CanonicalKey(upload.FileName, upload.Data)
		if doc, ok := s.cache.Get(key); ok {
			return doc, nil
		}
	}

	if err := s.parseGate.Acquire(ctx, 1); err != nil {
		return docimport.CanonicalDocument{}, err
	}
	doc, err := func() (docimport.CanonicalDocument, error) {
		defer s.parseGate.Release(1)
		return s.reader.Read(upload.Data, upload.FileName)
	}()
	if err != nil {
		return docimport.CanonicalDocument{}, err
	}

	if s.cache != nil {
		s.cache.Save(key, doc)
	}
	return doc, nil
}

// buildLessons turns the ordered files into lesson drafts according to the
// configured lesson policy.
func (s *importService) buildLessons(ordered []classify.ClassifiedFile) []dto.LessonDraft {
	lessons := make([]dto.LessonDraft, 0, len(ordered))
	add := func(title, content string) {
		lessons = append(lessons, dto.LessonDraft{
			Id:         uuid.New(),
			Type:       dto.LessonTypeText,
			Title:      title,
			Content:    content,
			OrderIndex: len(lessons),
		})
	}

	for _, f := range ordered {
		if s.cfg.LessonPolicy != config.LessonPolicyPerSection {
			add(f.Title, f.HTML)
			continue
		}
		sections := segment.Split(docimport.CanonicalDocument{SuggestedTitle: f.Title, HTML: f.HTML}, s.cfg.SectionMaxChars)
		if len(sections) == 1 {
			add(f.Title, sections[0].HTML)
			continue
		}
		for _, sec := range sections {
			add(sec.Title, sec.HTML)
		}
	}
	return lessons
}

func (s *importService) publishAudit(ctx context.Context, caller Caller, msg dto.ImportCompletedMessage) {
	if s.publisher == nil {
		return
	}
	msg.CompletedAt = time.Now()

	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Warn("IMPORT", "Failed to encode audit message", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.logger.Warn("IMPORT", "Failed to publish audit message", map[string]interface{}{
			"user_id": caller.UserId.String(),
			"error":   err.Error(),
		})
	}
}

func (s *importService) publishEvent(ctx context.Context, caller Caller, res *dto.ImportCourseResponse) {
	if s.eventPublisher == nil {
		return
	}

	failed := make([]string, len(res.Failures))
	for i, f := range res.Failures {
		failed[i] = f.FileName
	}
	evt := events.CourseImported{
		UserID:        caller.UserId.String(),
		CourseTitle:   res.CourseTitle,
		LessonCount:   len(res.Lessons),
		SectionsCount: res.SectionsCount,
		FailedFiles:   failed,
		OccurredAt:    time.Now(),
	}
	// Downstream consumers are auxiliary; the import has already succeeded.
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("IMPORT", "Failed to publish COURSE_IMPORTED event", map[string]interface{}{
			"user_id": caller.UserId.String(),
			"error":   err.Error(),
		})
	}
}

func (s *importService) History(ctx context.Context, userId uuid.UUID, req *dto.ImportHistoryRequest) (*dto.ImportHistoryResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	res := &dto.ImportHistoryResponse{
		Items:  []dto.ImportJobResponse{},
		Limit:  limit,
		Offset: offset,
	}
	if s.uowFactory == nil {
		return res, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	owned := specification.ImportJobOwnedByUser{UserID: userId}
	status := specification.ImportJobWithStatus{Status: req.Status}

	total, err := uow.ImportJobRepository().Count(ctx, owned, status)
	if err != nil {
		return nil, err
	}
	jobs, err := uow.ImportJobRepository().FindAll(ctx,
		owned,
		status,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	res.Total = total
	for _, job := range jobs {
		res.Items = append(res.Items, toImportJobResponse(job))
	}
	return res, nil
}

// ImportJob returns one import record of the caller. Records of other users
// are reported as not found.
func (s *importService) ImportJob(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ImportJobResponse, error) {
	if s.uowFactory == nil {
		return nil, ErrImportNotFound
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	job, err := uow.ImportJobRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ImportJobOwnedByUser{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrImportNotFound
	}

	res := toImportJobResponse(job)
	return &res, nil
}

func toImportJobResponse(job *entity.ImportJob) dto.ImportJobResponse {
	out := dto.ImportJobResponse{
		Id:            job.Id,
		CourseTitle:   job.CourseTitle,
		Status:        string(job.Status),
		FileCount:     job.FileCount,
		LessonCount:   job.LessonCount,
		SectionsCount: job.SectionsCount,
		Analysis:      make([]dto.FileAnalysis, len(job.Analysis)),
		Failures:      make([]dto.FileFailure, len(job.Failures)),
		CreatedAt:     job.CreatedAt,
	}
	for i, a := range job.Analysis {
		out.Analysis[i] = dto.FileAnalysis(a)
	}
	for i, f := range job.Failures {
		out.Failures[i] = dto.FileFailure(f)
	}
	return out
}

func toFailure(fileName string, err error) dto.FileFailure {
	var (
		unsupported *docimport.UnsupportedFormatError
		parse       *docimport.ParseFailure
	)
	switch {
	case errors.As(err, &unsupported):
		return dto.FileFailure{FileName: fileName, Reason: dto.FailureUnsupportedFormat, Error: unsupported.Error()}
	case errors.As(err, &parse):
		return dto.FileFailure{FileName: fileName, Reason: dto.FailureParse, Error: parse.Error()}
	case errors.Is(err, docimport.ErrEmptyDocument):
		return dto.FileFailure{FileName: fileName, Reason: dto.FailureEmptyDocument, Error: docimport.ErrEmptyDocument.Error()}
	}
	return dto.FileFailure{FileName: fileName, Reason: dto.FailureParse, Error: fmt.Sprintf("could not extract content from %q", fileName)}
}

// errorDetail includes wrapped causes for the log, which the client never sees.
func errorDetail(err error) string {
	if cause := errors.Unwrap(err); cause != nil {
		return err.Error() + ": " + cause.Error()
	}
	return err.Error()
}
