package quiz

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-questionbank/internal/domain/quiz"
	"github.com/yungbote/neurobridge-questionbank/internal/pkg/dbctx"
	"github.com/yungbote/neurobridge-questionbank/internal/platform/logger"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// QuestionFilter narrows List and Random. Zero values mean "any".
type QuestionFilter struct {
	CourseID   *uuid.UUID
	ModuleID   *uuid.UUID
	LessonID   *uuid.UUID
	Difficulty quiz.Difficulty
	Search     string
	Limit      int
	Offset     int
}

type QuestionRepo interface {
	Create(dbc dbctx.Context, questions []*quiz.Question) ([]*quiz.Question, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*quiz.Question, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*quiz.Question, error)
	List(dbc dbctx.Context, filter QuestionFilter) ([]*quiz.Question, int64, error)
	Update(dbc dbctx.Context, q *quiz.Question, replaceOptions bool) error
	Random(dbc dbctx.Context, count int, filter QuestionFilter, excludeIDs []uuid.UUID) ([]*quiz.Question, error)
	SoftDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
	FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return &questionRepo{
		db:  db,
		log: baseLog.With("repo", "QuestionRepo"),
	}
}

func preloadOptions(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *questionRepo) Create(dbc dbctx.Context, questions []*quiz.Question) ([]*quiz.Question, error) {
	if len(questions) == 0 {
		return []*quiz.Question{}, nil
	}
	if err := dbc.DB(r.db).Create(&questions).Error; err != nil {
		return nil, MapError(err)
	}
	return questions, nil
}

func (r *questionRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*quiz.Question, error) {
	var out []*quiz.Question
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Preload("Options", preloadOptions).
		Where("id IN ?", ids).
		Order("position ASC, created_at ASC").
		Find(&out).Error; err != nil {
		return nil, MapError(err)
	}
	return out, nil
}

func (r *questionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*quiz.Question, error) {
	if id == uuid.Nil {
		return nil, ErrNotFound
	}
	rows, err := r.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

func applyFilter(q *gorm.DB, f QuestionFilter) *gorm.DB {
	if f.CourseID != nil {
		q = q.Where("course_id = ?", *f.CourseID)
	}
	if f.ModuleID != nil {
		q = q.Where("module_id = ?", *f.ModuleID)
	}
	if f.LessonID != nil {
		q = q.Where("lesson_id = ?", *f.LessonID)
	}
	if f.Difficulty != "" {
		q = q.Where("difficulty = ?", f.Difficulty)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where("LOWER(question_text) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	return q
}

func (r *questionRepo) List(dbc dbctx.Context, filter QuestionFilter) ([]*quiz.Question, int64, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := applyFilter(dbc.DB(r.db).Model(&quiz.Question{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, MapError(err)
	}

	var out []*quiz.Question
	if err := applyFilter(dbc.DB(r.db), filter).
		Preload("Options", preloadOptions).
		Order("position ASC, created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error; err != nil {
		return nil, 0, MapError(err)
	}
	return out, total, nil
}

// Update saves the question columns. With replaceOptions the stored option
// set is swapped for q.Options, which get fresh ids.
func (r *questionRepo) Update(dbc dbctx.Context, q *quiz.Question, replaceOptions bool) error {
	if q == nil || q.ID == uuid.Nil {
		return ErrNotFound
	}
	run := func(tx *gorm.DB) error {
		res := tx.Model(&quiz.Question{}).
			Where("id = ?", q.ID).
			Select("course_id", "module_id", "lesson_id", "question_text", "question_type",
				"difficulty", "points", "position", "gabarito", "justification", "metadata", "updated_at").
			Updates(q)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if !replaceOptions {
			return nil
		}
		if err := tx.Where("question_id = ?", q.ID).Delete(&quiz.Option{}).Error; err != nil {
			return err
		}
		if len(q.Options) == 0 {
			return nil
		}
		for i := range q.Options {
			q.Options[i].ID = uuid.Nil
			q.Options[i].QuestionID = q.ID
		}
		return tx.Create(&q.Options).Error
	}

	var err error
	if dbc.Tx != nil {
		err = run(dbc.DB(r.db))
	} else {
		err = dbc.DB(r.db).Transaction(run)
	}
	return MapError(err)
}

// Random samples up to count questions matching filter, skipping excludeIDs.
func (r *questionRepo) Random(dbc dbctx.Context, count int, filter QuestionFilter, excludeIDs []uuid.UUID) ([]*quiz.Question, error) {
	var out []*quiz.Question
	if count <= 0 {
		return out, nil
	}
	q := applyFilter(dbc.DB(r.db), filter)
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}
	if err := q.Preload("Options", preloadOptions).
		Order("RANDOM()").
		Limit(count).
		Find(&out).Error; err != nil {
		return nil, MapError(err)
	}
	return out, nil
}

func (r *questionRepo) SoftDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := dbc.DB(r.db).
		Where("id IN ?", ids).
		Delete(&quiz.Question{}).Error; err != nil {
		return MapError(err)
	}
	return nil
}

func (r *questionRepo) FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	run := func(tx *gorm.DB) error {
		if err := tx.Where("question_id IN ?", ids).Delete(&quiz.Option{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Where("id IN ?", ids).Delete(&quiz.Question{}).Error
	}
	var err error
	if dbc.Tx != nil {
		err = run(dbc.DB(r.db))
	} else {
		err = dbc.DB(r.db).Transaction(run)
	}
	return MapError(err)
}
