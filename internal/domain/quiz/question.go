package quiz

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-questionbank/internal/modules/quizimport/mdquiz"
)

type Difficulty = mdquiz.Difficulty

const (
	DifficultyEasy   = mdquiz.DifficultyEasy
	DifficultyMedium = mdquiz.DifficultyMedium
	DifficultyHard   = mdquiz.DifficultyHard
)

const (
	TypeMultipleChoice = "multiple_choice"
	TypeTrueFalse      = "true_false"

	SourceMarkdown = "markdown"
	SourceJSON     = "json"
	SourceManual   = "manual"
)

type Question struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID      *uuid.UUID     `gorm:"type:uuid;index" json:"course_id,omitempty"`
	ModuleID      *uuid.UUID     `gorm:"type:uuid;index" json:"module_id,omitempty"`
	LessonID      *uuid.UUID     `gorm:"type:uuid;index" json:"lesson_id,omitempty"`
	QuestionText  string         `gorm:"column:question_text;not null" json:"question_text"`
	QuestionType  string         `gorm:"column:question_type;not null" json:"question_type"`
	Difficulty    Difficulty     `gorm:"column:difficulty;not null;index" json:"difficulty"`
	Points        int            `gorm:"column:points;not null" json:"points"`
	Position      int            `gorm:"column:position;not null" json:"position"`
	Gabarito      string         `gorm:"column:gabarito" json:"gabarito,omitempty"`
	Justification string         `gorm:"column:justification" json:"justification,omitempty"`
	Source        string         `gorm:"column:source;not null" json:"source"`
	Metadata      datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	Options       []Option       `gorm:"foreignKey:QuestionID;references:ID;constraint:OnDelete:CASCADE" json:"options"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Question) TableName() string { return "question_bank_question" }

func (q *Question) BeforeCreate(*gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

type Option struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Key        string    `gorm:"column:key" json:"key"`
	OptionText string    `gorm:"column:option_text;not null" json:"option_text"`
	IsCorrect  bool      `gorm:"column:is_correct;not null" json:"is_correct"`
	Position   int       `gorm:"column:position;not null" json:"position"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Option) TableName() string { return "question_bank_option" }

func (o *Option) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// Hierarchy places a question under a course, module and lesson. Any level
// may be unset.
type Hierarchy struct {
	CourseID *uuid.UUID `json:"course_id,omitempty"`
	ModuleID *uuid.UUID `json:"module_id,omitempty"`
	LessonID *uuid.UUID `json:"lesson_id,omitempty"`
}

// Override returns h with every level that is set in o replaced.
func (h Hierarchy) Override(o Hierarchy) Hierarchy {
	if o.CourseID != nil {
		h.CourseID = o.CourseID
	}
	if o.ModuleID != nil {
		h.ModuleID = o.ModuleID
	}
	if o.LessonID != nil {
		h.LessonID = o.LessonID
	}
	return h
}

func (q *Question) CorrectOptionIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, 1)
	for _, o := range q.Options {
		if o.IsCorrect {
			out = append(out, o.ID)
		}
	}
	return out
}
