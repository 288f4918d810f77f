package study

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

// Priority of an exam.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

var priorityNames = [...]string{"Low", "Medium", "High"}

var errInvalidPriority = errors.New("priority must be one of Low, Medium, High")

func (p Priority) String() string {
	if p < PriorityLow || p > PriorityHigh {
		return "Unknown"
	}
	return priorityNames[p]
}

func ParsePriority(s string) (Priority, error) {
	for i, name := range priorityNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Priority(i), nil
		}
	}
	return 0, errInvalidPriority
}

func (p Priority) MarshalText() ([]byte, error) {
	if p < PriorityLow || p > PriorityHigh {
		return nil, errInvalidPriority
	}
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(text []byte) error {
	parsed, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

type Subject struct {
	ID                 int    `json:"id" db:"id"`
	SubjectName        string `json:"subject_name" db:"subject_name"`
	SubjectDescription string `json:"subject_description" db:"subject_description"`
	Teacher            string `json:"teacher" db:"teacher"`
}

type Schedule struct {
	ID        int          `json:"id" db:"id"`
	SubjectID int          `json:"subject_id" db:"subject_id"`
	Day       time.Weekday `json:"day" db:"day"`
	StartTime string       `json:"start_time" db:"start_time"` // HH:MM
	EndTime   string       `json:"end_time" db:"end_time"`     // HH:MM
}

type ExamSchedule struct {
	ID        int       `json:"id" db:"id"`
	SubjectID int       `json:"subject_id" db:"subject_id"`
	ExamDate  time.Time `json:"exam_date" db:"exam_date"`
	StartTime string    `json:"start_time" db:"start_time"`
	EndTime   string    `json:"end_time" db:"end_time"`
	Priority  Priority  `json:"priority" db:"priority"`
}

// StudySession is exam preparation when ExamScheduleID is set, general study otherwise.
type StudySession struct {
	ID             int       `json:"id" db:"id"`
	SubjectID      int       `json:"subject_id" db:"subject_id"`
	ExamScheduleID null.Int  `json:"exam_schedule_id" db:"exam_schedule_id"`
	SessionDate    time.Time `json:"session_date" db:"session_date"`
	StartTime      string    `json:"start_time" db:"start_time"`
	EndTime        string    `json:"end_time" db:"end_time"`
	Notes          string    `json:"notes" db:"notes"`
}

// SubjectFile holds the metadata of an uploaded document.
// The bytes live with the file storage, under StorageKey.
type SubjectFile struct {
	ID          int       `json:"id" db:"id"`
	SubjectID   int       `json:"subject_id" db:"subject_id"`
	FileName    string    `json:"file_name" db:"file_name"`
	ContentType string    `json:"content_type" db:"content_type"`
	Size        int64     `json:"size" db:"size"`
	StorageKey  string    `json:"storage_key" db:"storage_key"`
	UploadedAt  time.Time `json:"uploaded_at" db:"uploaded_at"` // UTC
}

type RelatedLiterature struct {
	ID            int    `json:"id" db:"id"`
	SubjectFileID int    `json:"subject_file_id" db:"subject_file_id"`
	Title         string `json:"title" db:"title"`
	Authors       string `json:"authors" db:"authors"`
	Source        string `json:"source" db:"source"`
	Summary       string `json:"summary" db:"summary"`
}

type Quiz struct {
	ID            int       `json:"id" db:"id"`
	SubjectFileID int       `json:"subject_file_id" db:"subject_file_id"`
	Title         string    `json:"title" db:"title"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"` // UTC
}

type QuizQuestion struct {
	ID            int    `json:"id" db:"id"`
	QuizID        int    `json:"quiz_id" db:"quiz_id"`
	Position      int    `json:"position" db:"position"` // 1-based
	QuestionText  string `json:"question_text" db:"question_text"`
	CorrectAnswer string `json:"correct_answer" db:"correct_answer"`
}

type QuizAttempt struct {
	ID             int       `json:"id" db:"id"`
	QuizID         int       `json:"quiz_id" db:"quiz_id"`
	Score          int       `json:"score" db:"score"`
	TotalQuestions int       `json:"total_questions" db:"total_questions"`
	AttemptedAt    time.Time `json:"attempted_at" db:"attempted_at"` // UTC
}

// QuizAnswer is either the reference answer of a question (IsCorrect set at generation)
// or an answer submitted during an attempt.
type QuizAnswer struct {
	ID             int    `json:"id" db:"id"`
	QuizQuestionID int    `json:"quiz_question_id" db:"quiz_question_id"`
	AnswerText     string `json:"answer_text" db:"answer_text"`
	IsCorrect      bool   `json:"is_correct" db:"is_correct"`
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	SubjectName        string `json:"subject_name" validate:"required,max=200"`
	SubjectDescription string `json:"subject_description" validate:"max=2000"`
	Teacher            string `json:"teacher" validate:"max=200"`
}

// UpdateSubject defines what information may be provided to modify an existing Subject.
// Empty fields keep their current value.
type UpdateSubject struct {
	SubjectName        string `json:"subject_name" validate:"max=200"`
	SubjectDescription string `json:"subject_description" validate:"max=2000"`
	Teacher            string `json:"teacher" validate:"max=200"`
}

type NewSchedule struct {
	SubjectID int          `json:"subject_id" validate:"required,gt=0"`
	Day       time.Weekday `json:"day" validate:"min=0,max=6"`
	StartTime string       `json:"start_time" validate:"required,clock"`
	EndTime   string       `json:"end_time" validate:"required,clock"`
}

type NewExamSchedule struct {
	SubjectID int       `json:"subject_id" validate:"required,gt=0"`
	ExamDate  time.Time `json:"exam_date" validate:"required"`
	StartTime string    `json:"start_time" validate:"required,clock"`
	EndTime   string    `json:"end_time" validate:"required,clock"`
	Priority  Priority  `json:"priority" validate:"min=0,max=2"`
}

type NewStudySession struct {
	SubjectID      int       `json:"subject_id" validate:"required,gt=0"`
	ExamScheduleID null.Int  `json:"exam_schedule_id"`
	SessionDate    time.Time `json:"session_date" validate:"required"`
	StartTime      string    `json:"start_time" validate:"required,clock"`
	EndTime        string    `json:"end_time" validate:"required,clock"`
	Notes          string    `json:"notes" validate:"max=2000"`
}

// StudySessionFilter applies AND on its non-zero fields.
type StudySessionFilter struct {
	SubjectID      int
	ExamScheduleID int
}

type NewSubjectFile struct {
	SubjectID   int       `json:"subject_id" validate:"required,gt=0"`
	FileName    string    `json:"file_name" validate:"required,max=255"`
	ContentType string    `json:"content_type" validate:"max=255"`
	Size        int64     `json:"size" validate:"min=0"`
	StorageKey  string    `json:"storage_key" validate:"omitempty,uuid"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type NewRelatedLiterature struct {
	SubjectFileID int    `json:"subject_file_id" validate:"required,gt=0"`
	Title         string `json:"title" validate:"required,max=500"`
	Authors       string `json:"authors" validate:"max=500"`
	Source        string `json:"source" validate:"max=2000"`
	Summary       string `json:"summary"`
}

type NewQuiz struct {
	SubjectFileID int    `json:"subject_file_id" validate:"required,gt=0"`
	Title         string `json:"title" validate:"required,max=200"`
	NumQuestions  int    `json:"num_questions" validate:"min=1,max=100"`
}

// NewQuizQuestion is produced by a QuestionGenerator.
type NewQuizQuestion struct {
	QuestionText  string `json:"question_text" validate:"required"`
	CorrectAnswer string `json:"correct_answer" validate:"required"`
}
