package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	quizrepo "github.com/yungbote/neurobridge-questionbank/internal/data/repos/quiz"
	"github.com/yungbote/neurobridge-questionbank/internal/domain/quiz"
	"github.com/yungbote/neurobridge-questionbank/internal/http/response"
	"github.com/yungbote/neurobridge-questionbank/internal/platform/apierr"
	"github.com/yungbote/neurobridge-questionbank/internal/platform/logger"
	"github.com/yungbote/neurobridge-questionbank/internal/services"
)

const maxUploadBytes = 4 << 20

type QuestionBankHandler struct {
	log  *logger.Logger
	bank services.QuestionBankService
}

type QuestionBankHandlerDeps struct {
	Log     *logger.Logger
	Service services.QuestionBankService
}

func NewQuestionBankHandlerWithDeps(deps QuestionBankHandlerDeps) *QuestionBankHandler {
	log := deps.Log
	if log == nil {
		log = logger.NewNop()
	}
	return &QuestionBankHandler{
		log:  log.With("handler", "QuestionBankHandler"),
		bank: deps.Service,
	}
}

func (h *QuestionBankHandler) respondErr(c *gin.Context, err error, status int, code string) {
	ae := apierr.From(err, status, code)
	if ae.Status >= http.StatusInternalServerError {
		h.log.Error("request failed", "code", ae.Code, "error", err)
	}
	response.RespondError(c, ae.Status, ae.Code, ae.Err)
}

// POST /api/question-bank/preview
func (h *QuestionBankHandler) Preview(c *gin.Context) {
	var req services.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.bank.Preview(c.Request.Context(), req)
	if err != nil {
		h.respondErr(c, err, http.StatusInternalServerError, "preview_failed")
		return
	}
	response.RespondOK(c, res)
}

// POST /api/question-bank/import
//
// Accepts either a JSON body or a multipart upload with a "file" field plus
// optional course_id, module_id, lesson_id, points and format form values.
func (h *QuestionBankHandler) Import(c *gin.Context) {
	var (
		req services.ImportRequest
		err error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		req, err = importRequestFromForm(c)
	} else {
		err = c.ShouldBindJSON(&req)
	}
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	res, err := h.bank.Import(c.Request.Context(), req)
	if err != nil {
		h.respondErr(c, err, http.StatusInternalServerError, "import_failed")
		return
	}
	response.RespondCreated(c, res)
}

func importRequestFromForm(c *gin.Context) (services.ImportRequest, error) {
	var req services.ImportRequest
	fh, err := c.FormFile("file")
	if err != nil {
		return req, fmt.Errorf("missing file: %w", err)
	}
	if fh.Size > maxUploadBytes {
		return req, fmt.Errorf("file is %d bytes, limit is %d", fh.Size, maxUploadBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return req, err
	}
	defer f.Close()
	raw, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return req, err
	}
	req.Content = string(raw)

	req.Format = strings.TrimSpace(c.PostForm("format"))
	if req.Format == "" {
		switch strings.ToLower(filepath.Ext(fh.Filename)) {
		case ".json":
			req.Format = "json"
		default:
			req.Format = "markdown"
		}
	}
	if req.Hierarchy, err = hierarchyFrom(c.PostForm); err != nil {
		return req, err
	}
	if raw := strings.TrimSpace(c.PostForm("points")); raw != "" {
		if req.Points, err = strconv.Atoi(raw); err != nil {
			return req, fmt.Errorf("invalid points: %w", err)
		}
	}
	return req, nil
}

func hierarchyFrom(get func(string) string) (quiz.Hierarchy, error) {
	var h quiz.Hierarchy
	fields := []struct {
		name string
		dst  **uuid.UUID
	}{
		{"course_id", &h.CourseID},
		{"module_id", &h.ModuleID},
		{"lesson_id", &h.LessonID},
	}
	for _, f := range fields {
		raw := strings.TrimSpace(get(f.name))
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return h, fmt.Errorf("invalid %s: %w", f.name, err)
		}
		*f.dst = &id
	}
	return h, nil
}

func filterFromQuery(c *gin.Context) (quizrepo.QuestionFilter, error) {
	h, err := hierarchyFrom(c.Query)
	if err != nil {
		return quizrepo.QuestionFilter{}, err
	}
	f := quizrepo.QuestionFilter{
		CourseID:   h.CourseID,
		ModuleID:   h.ModuleID,
		LessonID:   h.LessonID,
		Difficulty: quiz.Difficulty(strings.ToLower(strings.TrimSpace(c.Query("difficulty")))),
		Search:     c.Query("q"),
	}
	for name, dst := range map[string]*int{"limit": &f.Limit, "offset": &f.Offset} {
		raw := strings.TrimSpace(c.Query(name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, fmt.Errorf("invalid %s %q", name, raw)
		}
		*dst = n
	}
	return f, nil
}

// GET /api/question-bank/questions
func (h *QuestionBankHandler) List(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_filter", err)
		return
	}
	res, err := h.bank.List(c.Request.Context(), filter)
	if err != nil {
		h.respondErr(c, err, http.StatusInternalServerError, "list_questions_failed")
		return
	}
	response.RespondOK(c, res)
}

func questionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		if err == nil {
			err = errors.New("nil question id")
		}
		response.RespondError(c, http.StatusBadRequest, "invalid_question_id", err)
		return uuid.Nil, false
	}
	return id, true
}

// GET /api/question-bank/questions/:id
func (h *QuestionBankHandler) Get(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}
	q, err := h.bank.Get(c.Request.Context(), id)
	if err != nil {
		h.respondErr(c, err, http.StatusInternalServerError, "load_question_failed")
		return
	}
	response.RespondOK(c, gin.H{"question": q})
}

// PUT /api/question-bank/questions/:id
func (h *QuestionBankHandler) Update(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}
	var req services.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	q, err := h.bank.Update(c.Request.Context(), id, req)
	if err != nil {
		h.respondErr(c, err, http.StatusInternalServerError, "update_question_failed")
		return
	}
	response.RespondOK(c, gin.H{"question": q})
}

// DELETE /api/question-bank/questions/:id
func (h *QuestionBankHandler) Delete(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}
	if err := h.bank.Delete(c.Request.Context(), id); err != nil {
		h.respondErr(c, err, http.StatusInternalServerError, "delete_question_failed")
		return
	}
	response.RespondNoContent(c)
}

// GET /api/question-bank/random?count=N&exclude=<id>&exclude=<id>
func (h *QuestionBankHandler) Random(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_filter", err)
		return
	}
	count := 10
	if raw := strings.TrimSpace(c.Query("count")); raw != "" {
		if count, err = strconv.Atoi(raw); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_count", err)
			return
		}
	}
	var exclude []uuid.UUID
	for _, raw := range c.QueryArray("exclude") {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := uuid.Parse(part)
			if err != nil {
				response.RespondError(c, http.StatusBadRequest, "invalid_exclude", err)
				return
			}
			exclude = append(exclude, id)
		}
	}
	rows, err := h.bank.Random(c.Request.Context(), count, filter, exclude)
	if err != nil {
		h.respondErr(c, err, http.StatusInternalServerError, "random_questions_failed")
		return
	}
	response.RespondOK(c, gin.H{"questions": rows})
}

// POST /api/question-bank/grade
func (h *QuestionBankHandler) Grade(c *gin.Context) {
	var req services.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.bank.Grade(c.Request.Context(), req)
	if err != nil {
		h.respondErr(c, err, http.StatusInternalServerError, "grade_failed")
		return
	}
	response.RespondOK(c, res)
}
