package observability

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-questionbank/internal/domain/quiz"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.ApiInflightInc()
	m.ObserveImport("markdown", 1, 1)
	m.ObservePreviewCache(true)
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	if NewMetrics(false) != nil {
		t.Fatalf("disabled metrics should be nil")
	}

	rec := httptest.NewRecorder()
	m.WriteHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got=%d", rec.Code)
	}
}

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics(true)
	m.ObserveAPI("POST", "/api/question-bank/import", "201", 30*time.Millisecond)
	m.ObserveAPI("POST", "/api/question-bank/import", "201", 2*time.Second)
	m.ObserveImport("markdown", 3, 1)
	m.ObservePreviewCache(false)
	m.ObservePreviewCache(true)
	m.ObservePreviewCache(true)
	m.ApiInflightInc()
	m.ApiInflightInc()
	m.ApiInflightDec()

	if got := m.previewCache.Value("hit"); got != 2 {
		t.Fatalf("cache hits: got=%v", got)
	}
	if got := m.apiInflight.Value(); got != 1 {
		t.Fatalf("inflight: got=%v", got)
	}

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	want := []string{
		"# TYPE qb_api_requests_total counter",
		`qb_api_requests_total{method="POST",route="/api/question-bank/import",status="201"} 2.000000`,
		`qb_api_request_duration_seconds_bucket{method="POST",route="/api/question-bank/import",status="201",le="0.05"} 1`,
		`qb_api_request_duration_seconds_bucket{method="POST",route="/api/question-bank/import",status="201",le="+Inf"} 2`,
		`qb_import_questions_total{format="markdown",outcome="imported"} 3.000000`,
		`qb_import_questions_total{format="markdown",outcome="skipped"} 1.000000`,
		`qb_preview_cache_total{result="miss"} 1.000000`,
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Fatalf("missing %q in:\n%s", w, out)
		}
	}
}

func TestLabelEscaping(t *testing.T) {
	got := labelString([]string{"a", "b"}, []string{`x"y`})
	if got != `{a="x\"y",b="unknown"}` {
		t.Fatalf("labelString: got=%s", got)
	}
	if got := withLe("", "1"); got != `{le="1"}` {
		t.Fatalf("withLe: got=%s", got)
	}
}

func TestCollectDB(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&quiz.Question{}, &quiz.Option{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, d := range []quiz.Difficulty{quiz.DifficultyHard, quiz.DifficultyHard, quiz.DifficultyEasy} {
		q := &quiz.Question{
			QuestionText: "q",
			QuestionType: quiz.TypeMultipleChoice,
			Difficulty:   d,
			Points:       1,
			Source:       quiz.SourceManual,
		}
		if err := db.Create(q).Error; err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	m := NewMetrics(true)
	if err := m.CollectDB(context.Background(), db); err != nil {
		t.Fatalf("CollectDB: %v", err)
	}
	if got := m.bankSize.Value("hard"); got != 2 {
		t.Fatalf("hard: got=%v", got)
	}
	if got := m.bankSize.Value("medium"); got != 0 {
		t.Fatalf("medium: got=%v", got)
	}
}
