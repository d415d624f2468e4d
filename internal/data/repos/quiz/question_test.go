package quiz

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-questionbank/internal/data/repos/testutil"
	"github.com/yungbote/neurobridge-questionbank/internal/domain/quiz"
	"github.com/yungbote/neurobridge-questionbank/internal/modules/quizimport/mdquiz"
	"github.com/yungbote/neurobridge-questionbank/internal/pkg/dbctx"
)

func TestQuestionRepoCreateAndGet(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewQuestionRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	h := quiz.Hierarchy{CourseID: testutil.UUIDPtr()}
	q1 := testutil.NewQuestion("first", h, 0)
	q2 := testutil.NewQuestion("second", h, 1)
	created, err := repo.Create(dbc, []*quiz.Question{q2, q1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 2 || created[0].ID == uuid.Nil || created[0].Options[0].ID == uuid.Nil {
		t.Fatalf("ids not assigned: %+v", created)
	}

	rows, err := repo.GetByIDs(dbc, []uuid.UUID{q1.ID, q2.ID})
	if err != nil || len(rows) != 2 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	if rows[0].ID != q1.ID {
		t.Fatalf("expected position order, got %q first", rows[0].QuestionText)
	}
	if len(rows[0].Options) != 2 || rows[0].Options[0].Key != "A" || !rows[0].Options[0].IsCorrect {
		t.Fatalf("options not preloaded in order: %+v", rows[0].Options)
	}

	if _, err := repo.GetByID(dbc, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByID missing: expected ErrNotFound, got %v", err)
	}
	if got, err := repo.Create(dbc, nil); err != nil || len(got) != 0 {
		t.Fatalf("Create empty: err=%v len=%d", err, len(got))
	}
}

func TestQuestionRepoListFilters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewQuestionRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	courseA := quiz.Hierarchy{CourseID: testutil.UUIDPtr(), LessonID: testutil.UUIDPtr()}
	courseB := quiz.Hierarchy{CourseID: testutil.UUIDPtr()}
	testutil.SeedQuestions(t, ctx, tx, courseA, 3)
	seededB := testutil.SeedQuestions(t, ctx, tx, courseB, 2)

	hard := testutil.NewQuestion("Blocos de repetição", courseB, 5)
	hard.Difficulty = mdquiz.DifficultyHard
	if _, err := repo.Create(dbc, []*quiz.Question{hard}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	cases := []struct {
		name   string
		filter QuestionFilter
		want   int
		total  int64
	}{
		{"all", QuestionFilter{}, 6, 6},
		{"course", QuestionFilter{CourseID: courseA.CourseID}, 3, 3},
		{"lesson", QuestionFilter{LessonID: courseA.LessonID}, 3, 3},
		{"difficulty", QuestionFilter{Difficulty: mdquiz.DifficultyHard}, 1, 1},
		{"search", QuestionFilter{Search: "REPETIÇÃO"}, 1, 1},
		{"search miss", QuestionFilter{Search: "laço"}, 0, 0},
		{"paged", QuestionFilter{CourseID: courseB.CourseID, Limit: 2, Offset: 1}, 2, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows, total, err := repo.List(dbc, tc.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(rows) != tc.want || total != tc.total {
				t.Fatalf("got len=%d total=%d want len=%d total=%d", len(rows), total, tc.want, tc.total)
			}
		})
	}

	if err := repo.SoftDeleteByIDs(dbc, []uuid.UUID{seededB[0].ID}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}
	if _, total, _ := repo.List(dbc, QuestionFilter{CourseID: courseB.CourseID}); total != 2 {
		t.Fatalf("soft deleted question still listed: total=%d", total)
	}
}

func TestQuestionRepoUpdateReplacesOptions(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewQuestionRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	q := testutil.SeedQuestions(t, ctx, tx, quiz.Hierarchy{}, 1)[0]
	q.QuestionText = "edited"
	q.Points = 3
	q.Options = []quiz.Option{
		{Key: "A", OptionText: "x", Position: 0},
		{Key: "B", OptionText: "y", Position: 1},
		{Key: "C", OptionText: "z", IsCorrect: true, Position: 2},
	}
	if err := repo.Update(dbc, q, true); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.GetByID(dbc, q.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.QuestionText != "edited" || got.Points != 3 {
		t.Fatalf("columns not updated: %+v", got)
	}
	if len(got.Options) != 3 || !got.Options[2].IsCorrect {
		t.Fatalf("options not replaced: %+v", got.Options)
	}

	missing := testutil.NewQuestion("ghost", quiz.Hierarchy{}, 0)
	missing.ID = uuid.New()
	if err := repo.Update(dbc, missing, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestQuestionRepoRandom(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewQuestionRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	h := quiz.Hierarchy{LessonID: testutil.UUIDPtr()}
	seeded := testutil.SeedQuestions(t, ctx, tx, h, 5)
	testutil.SeedQuestions(t, ctx, tx, quiz.Hierarchy{}, 3)

	exclude := []uuid.UUID{seeded[0].ID, seeded[1].ID}
	rows, err := repo.Random(dbc, 10, QuestionFilter{LessonID: h.LessonID}, exclude)
	if err != nil {
		t.Fatalf("Random: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 remaining questions, got %d", len(rows))
	}
	for _, r := range rows {
		if r.ID == exclude[0] || r.ID == exclude[1] {
			t.Fatalf("excluded id returned: %s", r.ID)
		}
		if len(r.Options) != 2 {
			t.Fatalf("options not preloaded")
		}
	}

	rows, err = repo.Random(dbc, 2, QuestionFilter{}, nil)
	if err != nil || len(rows) != 2 {
		t.Fatalf("Random count: err=%v len=%d", err, len(rows))
	}
	if rows, _ := repo.Random(dbc, 0, QuestionFilter{}, nil); len(rows) != 0 {
		t.Fatalf("count 0 should return nothing")
	}
}

func TestQuestionRepoFullDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewQuestionRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	q := testutil.SeedQuestions(t, ctx, tx, quiz.Hierarchy{}, 1)[0]
	if err := repo.FullDeleteByIDs(dbc, []uuid.UUID{q.ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	var n int64
	if err := tx.Model(&quiz.Option{}).Where("question_id = ?", q.ID).Count(&n).Error; err != nil {
		t.Fatalf("count options: %v", err)
	}
	if n != 0 {
		t.Fatalf("options left behind: %d", n)
	}
	if err := tx.Unscoped().Model(&quiz.Question{}).Where("id = ?", q.ID).Count(&n).Error; err != nil || n != 0 {
		t.Fatalf("question not hard deleted: n=%d err=%v", n, err)
	}
}

func TestMapError(t *testing.T) {
	if MapError(nil) != nil {
		t.Fatal("nil should stay nil")
	}
	if err := MapError(context.Canceled); !errors.Is(err, ErrRetryable) {
		t.Fatalf("canceled: got %v", err)
	}
	if err := MapError(errors.New("UNIQUE constraint failed: question_bank_option.id")); !errors.Is(err, ErrConflict) {
		t.Fatalf("sqlite unique: got %v", err)
	}
	plain := errors.New("boom")
	if MapError(plain) != plain {
		t.Fatal("unknown errors pass through")
	}
}
