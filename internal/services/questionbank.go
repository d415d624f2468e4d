package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-questionbank/internal/clients/redis"
	quizrepo "github.com/yungbote/neurobridge-questionbank/internal/data/repos/quiz"
	"github.com/yungbote/neurobridge-questionbank/internal/domain/quiz"
	"github.com/yungbote/neurobridge-questionbank/internal/modules/quizimport"
	"github.com/yungbote/neurobridge-questionbank/internal/modules/quizimport/mdquiz"
	"github.com/yungbote/neurobridge-questionbank/internal/observability"
	"github.com/yungbote/neurobridge-questionbank/internal/pkg/dbctx"
	"github.com/yungbote/neurobridge-questionbank/internal/platform/apierr"
	"github.com/yungbote/neurobridge-questionbank/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-questionbank/internal/platform/logger"
)

const (
	DefaultPassingScore = 70
	MaxRandomCount      = 100
)

type QuestionBankConfig struct {
	DefaultPoints   int
	MaxContentBytes int
	Metrics         *observability.Metrics
}

type PreviewRequest struct {
	Format  string `json:"format"`
	Content string `json:"content"`
}

type PreviewQuestion struct {
	Index        int                   `json:"index"`
	Question     mdquiz.ParsedQuestion `json:"question"`
	QuestionHTML string                `json:"question_html"`
	CorrectCount int                   `json:"correct_count"`
}

type PreviewResult struct {
	Format    quizimport.Format `json:"format"`
	Meta      quizimport.Meta   `json:"meta"`
	Questions []PreviewQuestion `json:"questions"`
	Warnings  []string          `json:"warnings"`
	Cached    bool              `json:"cached"`
}

type ImportRequest struct {
	Format    string         `json:"format"`
	Content   string         `json:"content"`
	Hierarchy quiz.Hierarchy `json:"hierarchy"`
	Points    int            `json:"points"`
}

type SkippedQuestion struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	Imported []*quiz.Question `json:"imported"`
	Skipped  []SkippedQuestion `json:"skipped"`
	Parsed   int               `json:"parsed"`
}

type OptionInput struct {
	Key        string `json:"key"`
	OptionText string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct"`
}

// UpdateRequest is a partial update; nil fields are left untouched.
type UpdateRequest struct {
	QuestionText  *string         `json:"question_text"`
	Difficulty    *string         `json:"difficulty"`
	Points        *int            `json:"points"`
	Position      *int            `json:"position"`
	Gabarito      *string         `json:"gabarito"`
	Justification *string         `json:"justification"`
	Hierarchy     *quiz.Hierarchy `json:"hierarchy"`
	Options       *[]OptionInput  `json:"options"`
}

type ListResult struct {
	Questions []*quiz.Question `json:"questions"`
	Total     int64            `json:"total"`
	Limit     int              `json:"limit"`
	Offset    int              `json:"offset"`
}

type GradeRequest struct {
	QuestionIDs  []uuid.UUID             `json:"question_ids"`
	Answers      map[uuid.UUID]uuid.UUID `json:"answers"`
	PassingScore *float64                `json:"passing_score"`
}

type QuestionBankService interface {
	Preview(ctx context.Context, req PreviewRequest) (*PreviewResult, error)
	Import(ctx context.Context, req ImportRequest) (*ImportResult, error)
	List(ctx context.Context, filter quizrepo.QuestionFilter) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*quiz.Question, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*quiz.Question, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Random(ctx context.Context, count int, filter quizrepo.QuestionFilter, excludeIDs []uuid.UUID) ([]*quiz.Question, error)
	Grade(ctx context.Context, req GradeRequest) (*quiz.GradeResult, error)
}

type questionBankService struct {
	db       *gorm.DB
	log      *logger.Logger
	repo     quizrepo.QuestionRepo
	cache    redis.PreviewCache
	renderer *quizimport.Renderer
	cfg      QuestionBankConfig
}

func NewQuestionBankService(
	db *gorm.DB,
	baseLog *logger.Logger,
	repo quizrepo.QuestionRepo,
	cache redis.PreviewCache,
	renderer *quizimport.Renderer,
	cfg QuestionBankConfig,
) QuestionBankService {
	if cache == nil {
		cache = redis.NopCache{}
	}
	if renderer == nil {
		renderer = quizimport.NewRenderer()
	}
	if cfg.DefaultPoints <= 0 {
		cfg.DefaultPoints = quiz.DefaultPoints
	}
	if cfg.MaxContentBytes <= 0 {
		cfg.MaxContentBytes = 1 << 20
	}
	return &questionBankService{
		db:       db,
		log:      baseLog.With("service", "QuestionBankService"),
		repo:     repo,
		cache:    cache,
		renderer: renderer,
		cfg:      cfg,
	}
}

func (s *questionBankService) decode(format, content string) (*quizimport.Document, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apierr.New(http.StatusBadRequest, "empty_content", errors.New("content is empty"))
	}
	if len(content) > s.cfg.MaxContentBytes {
		return nil, apierr.New(http.StatusRequestEntityTooLarge, "content_too_large",
			fmt.Errorf("content is %d bytes, limit is %d", len(content), s.cfg.MaxContentBytes))
	}
	doc, err := quizimport.Decode(format, []byte(content))
	if err != nil {
		if errors.Is(err, quizimport.ErrUnsupportedFormat) {
			return nil, apierr.New(http.StatusBadRequest, "unsupported_format", err)
		}
		return nil, apierr.New(http.StatusBadRequest, "invalid_document", err)
	}
	return doc, nil
}

func (s *questionBankService) Preview(ctx context.Context, req PreviewRequest) (*PreviewResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "questionbank.preview")
	defer span.End()

	key := redis.PreviewKey(req.Format, []byte(req.Content))
	if raw, hit, err := s.cache.Get(ctx, key); err != nil {
		s.log.Warn("preview cache get failed", "error", err)
	} else if hit {
		var cached PreviewResult
		if err := json.Unmarshal(raw, &cached); err == nil {
			cached.Cached = true
			span.SetAttributes(attribute.Bool("preview.cached", true))
			s.cfg.Metrics.ObservePreviewCache(true)
			return &cached, nil
		}
	}
	s.cfg.Metrics.ObservePreviewCache(false)

	doc, err := s.decode(req.Format, req.Content)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	res := &PreviewResult{
		Format:    doc.Format,
		Meta:      doc.Meta,
		Questions: make([]PreviewQuestion, 0, len(doc.Questions)),
		Warnings:  []string{},
	}
	for i, q := range doc.Questions {
		html, err := s.renderer.Render(q.QuestionText)
		if err != nil {
			return nil, apierr.New(http.StatusInternalServerError, "render_failed", err)
		}
		correct := q.CorrectCount()
		switch {
		case correct == 0:
			res.Warnings = append(res.Warnings, fmt.Sprintf("question %d has no correct option", i+1))
		case correct > 1:
			res.Warnings = append(res.Warnings, fmt.Sprintf("question %d has %d correct options", i+1, correct))
		}
		res.Questions = append(res.Questions, PreviewQuestion{
			Index:        i,
			Question:     q,
			QuestionHTML: html,
			CorrectCount: correct,
		})
	}
	if len(res.Questions) == 0 {
		res.Warnings = append(res.Warnings, "no questions found")
	}
	span.SetAttributes(attribute.Int("preview.questions", len(res.Questions)))

	if raw, err := json.Marshal(res); err == nil {
		if err := s.cache.Set(ctx, key, raw); err != nil {
			s.log.Warn("preview cache set failed", "error", err)
		}
	}
	return res, nil
}

func (s *questionBankService) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "questionbank.import")
	defer span.End()

	doc, err := s.decode(req.Format, req.Content)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	hierarchy := quiz.Hierarchy{
		CourseID: doc.Meta.CourseID,
		ModuleID: doc.Meta.ModuleID,
		LessonID: doc.Meta.LessonID,
	}.Override(req.Hierarchy)

	points := req.Points
	if points <= 0 {
		points = doc.Meta.Points
	}
	if points <= 0 {
		points = s.cfg.DefaultPoints
	}

	metadata, err := importMetadata(doc.Meta)
	if err != nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_metadata", err)
	}
	source := quiz.SourceMarkdown
	if doc.Format == quizimport.FormatJSON {
		source = quiz.SourceJSON
	}

	res := &ImportResult{Parsed: len(doc.Questions), Skipped: []SkippedQuestion{}}
	valid := make([]*quiz.Question, 0, len(doc.Questions))
	for i, p := range doc.Questions {
		q := quiz.FromParsed(p, hierarchy, i, points)
		q.Source = source
		q.Metadata = metadata
		if err := q.Validate(); err != nil {
			res.Skipped = append(res.Skipped, SkippedQuestion{Index: i, Reason: err.Error()})
			continue
		}
		valid = append(valid, q)
	}
	span.SetAttributes(
		attribute.Int("import.parsed", res.Parsed),
		attribute.Int("import.valid", len(valid)),
	)
	if len(valid) == 0 {
		err := apierr.New(http.StatusUnprocessableEntity, "no_valid_questions",
			fmt.Errorf("none of the %d parsed questions can be imported", res.Parsed))
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := s.repo.Create(dbctx.Context{Ctx: ctx, Tx: tx}, valid)
		if err != nil {
			return err
		}
		res.Imported = created
		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, s.storeError("import_failed", err)
	}

	s.cfg.Metrics.ObserveImport(string(doc.Format), len(res.Imported), len(res.Skipped))
	s.log.Info("questions imported", append(ctxutil.LogFields(ctx),
		"format", doc.Format,
		"parsed", res.Parsed,
		"imported", len(res.Imported),
		"skipped", len(res.Skipped),
	)...)
	return res, nil
}

func importMetadata(meta quizimport.Meta) (datatypes.JSON, error) {
	if len(meta.Tags) == 0 && len(meta.Extras) == 0 {
		return nil, nil
	}
	payload := map[string]any{}
	if len(meta.Tags) > 0 {
		payload["tags"] = meta.Tags
	}
	if len(meta.Extras) > 0 {
		payload["extras"] = meta.Extras
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func (s *questionBankService) List(ctx context.Context, filter quizrepo.QuestionFilter) (*ListResult, error) {
	if filter.Difficulty != "" && !filter.Difficulty.Valid() {
		return nil, apierr.New(http.StatusBadRequest, "invalid_difficulty", fmt.Errorf("unknown difficulty %q", filter.Difficulty))
	}
	rows, total, err := s.repo.List(dbctx.Ctx(ctx), filter)
	if err != nil {
		return nil, s.storeError("list_questions_failed", err)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = quizrepo.DefaultListLimit
	}
	if limit > quizrepo.MaxListLimit {
		limit = quizrepo.MaxListLimit
	}
	return &ListResult{Questions: rows, Total: total, Limit: limit, Offset: filter.Offset}, nil
}

func (s *questionBankService) Get(ctx context.Context, id uuid.UUID) (*quiz.Question, error) {
	q, err := s.repo.GetByID(dbctx.Ctx(ctx), id)
	if err != nil {
		return nil, s.storeError("load_question_failed", err)
	}
	return q, nil
}

func (s *questionBankService) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*quiz.Question, error) {
	q, err := s.repo.GetByID(dbctx.Ctx(ctx), id)
	if err != nil {
		return nil, s.storeError("load_question_failed", err)
	}

	if req.QuestionText != nil {
		q.QuestionText = *req.QuestionText
	}
	if req.Difficulty != nil {
		q.Difficulty = quiz.Difficulty(strings.ToLower(strings.TrimSpace(*req.Difficulty)))
	}
	if req.Points != nil {
		q.Points = *req.Points
	}
	if req.Position != nil {
		q.Position = *req.Position
	}
	if req.Gabarito != nil {
		q.Gabarito = *req.Gabarito
	}
	if req.Justification != nil {
		q.Justification = *req.Justification
	}
	if req.Hierarchy != nil {
		q.CourseID = req.Hierarchy.CourseID
		q.ModuleID = req.Hierarchy.ModuleID
		q.LessonID = req.Hierarchy.LessonID
	}
	replaceOptions := req.Options != nil
	if replaceOptions {
		q.Options = make([]quiz.Option, 0, len(*req.Options))
		for i, o := range *req.Options {
			key := strings.TrimSpace(o.Key)
			if key == "" {
				key = mdquiz.PositionalKey(i)
			}
			q.Options = append(q.Options, quiz.Option{
				Key:        key,
				OptionText: strings.TrimSpace(o.OptionText),
				IsCorrect:  o.IsCorrect,
				Position:   i,
			})
		}
	}

	if err := q.Validate(); err != nil {
		return nil, apierr.New(http.StatusUnprocessableEntity, "validation_failed", err)
	}
	if err := s.repo.Update(dbctx.Ctx(ctx), q, replaceOptions); err != nil {
		return nil, s.storeError("update_question_failed", err)
	}
	return s.Get(ctx, id)
}

func (s *questionBankService) Delete(ctx context.Context, id uuid.UUID) error {
	dbc := dbctx.Ctx(ctx)
	if _, err := s.repo.GetByID(dbc, id); err != nil {
		return s.storeError("load_question_failed", err)
	}
	if err := s.repo.SoftDeleteByIDs(dbc, []uuid.UUID{id}); err != nil {
		return s.storeError("delete_question_failed", err)
	}
	s.log.Info("question deleted", append(ctxutil.LogFields(ctx), "question_id", id)...)
	return nil
}

func (s *questionBankService) Random(ctx context.Context, count int, filter quizrepo.QuestionFilter, excludeIDs []uuid.UUID) ([]*quiz.Question, error) {
	if count <= 0 {
		return nil, apierr.New(http.StatusBadRequest, "invalid_count", fmt.Errorf("count must be positive, got %d", count))
	}
	if count > MaxRandomCount {
		count = MaxRandomCount
	}
	rows, err := s.repo.Random(dbctx.Ctx(ctx), count, filter, excludeIDs)
	if err != nil {
		return nil, s.storeError("random_questions_failed", err)
	}
	return rows, nil
}

func (s *questionBankService) Grade(ctx context.Context, req GradeRequest) (*quiz.GradeResult, error) {
	passing := float64(DefaultPassingScore)
	if req.PassingScore != nil {
		passing = *req.PassingScore
	}

	ids := req.QuestionIDs
	if len(ids) == 0 {
		ids = make([]uuid.UUID, 0, len(req.Answers))
		for qid := range req.Answers {
			ids = append(ids, qid)
		}
	}
	if len(ids) == 0 {
		return nil, apierr.New(http.StatusBadRequest, "no_questions", errors.New("no questions to grade"))
	}

	questions, err := s.repo.GetByIDs(dbctx.Ctx(ctx), ids)
	if err != nil {
		return nil, s.storeError("load_questions_failed", err)
	}
	found := make(map[uuid.UUID]struct{}, len(questions))
	for _, q := range questions {
		found[q.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return nil, apierr.New(http.StatusNotFound, "question_not_found", fmt.Errorf("question %s not found", id))
		}
	}

	res, err := quiz.Grade(questions, req.Answers, passing)
	if err != nil {
		return nil, apierr.New(http.StatusUnprocessableEntity, "validation_failed", err)
	}
	return res, nil
}

func (s *questionBankService) storeError(code string, err error) error {
	var ae *apierr.Error
	switch {
	case errors.As(err, &ae):
		return err
	case errors.Is(err, quizrepo.ErrNotFound):
		return apierr.New(http.StatusNotFound, "question_not_found", err)
	case errors.Is(err, quizrepo.ErrConflict):
		return apierr.New(http.StatusConflict, code, err)
	case errors.Is(err, quizrepo.ErrRetryable):
		return apierr.New(http.StatusServiceUnavailable, code, err)
	}
	s.log.Error("question store failure", "code", code, "error", err)
	return apierr.New(http.StatusInternalServerError, code, err)
}
