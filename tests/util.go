package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/studydesk/core"
	"github.com/trezcool/studydesk/core/study"
	"github.com/trezcool/studydesk/storage/database"
)

// Config returns a TEST config pointing at a SQLite database in a temporary directory.
func Config(t *testing.T) *core.Config {
	t.Helper()
	return &core.Config{
		Env:      "TEST",
		AppName:  "studydesk",
		TestMode: true,
		Database: core.DatabaseConfig{
			Engine:      core.EngineSQLite,
			Path:        filepath.Join(t.TempDir(), "studydesk.db"),
			PingTimeout: 5 * time.Second,
		},
	}
}

// PrepareDB opens a migrated (and seeded) SQLite database, closed when the test ends.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	conf := Config(t)
	db, err := database.Setup(conf, goose.NopLogger())
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func CreateSubject(t *testing.T, repo study.Repository, name string) study.Subject {
	t.Helper()
	subj, err := repo.CreateSubject(context.Background(), study.Subject{
		SubjectName:        name,
		SubjectDescription: name + " basics",
		Teacher:            "T",
	})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return subj
}

func CreateSchedule(t *testing.T, repo study.Repository, subjectID int, day time.Weekday) study.Schedule {
	t.Helper()
	sched, err := repo.CreateSchedule(context.Background(), study.Schedule{
		SubjectID: subjectID,
		Day:       day,
		StartTime: "08:00",
		EndTime:   "09:30",
	})
	if err != nil {
		t.Fatalf("CreateSchedule() failed: %v", err)
	}
	return sched
}

func CreateExamSchedule(t *testing.T, repo study.Repository, subjectID int, date time.Time) study.ExamSchedule {
	t.Helper()
	exam, err := repo.CreateExamSchedule(context.Background(), study.ExamSchedule{
		SubjectID: subjectID,
		ExamDate:  date.UTC(),
		StartTime: "10:00",
		EndTime:   "12:00",
		Priority:  study.PriorityMedium,
	})
	if err != nil {
		t.Fatalf("CreateExamSchedule() failed: %v", err)
	}
	return exam
}

// CreateStudySession creates a general session, or an exam preparation session when examID is valid.
func CreateStudySession(t *testing.T, repo study.Repository, subjectID int, examID null.Int) study.StudySession {
	t.Helper()
	sess, err := repo.CreateStudySession(context.Background(), study.StudySession{
		SubjectID:      subjectID,
		ExamScheduleID: examID,
		SessionDate:    time.Date(2024, time.July, 10, 0, 0, 0, 0, time.UTC),
		StartTime:      "18:00",
		EndTime:        "19:00",
		Notes:          "revise",
	})
	if err != nil {
		t.Fatalf("CreateStudySession() failed: %v", err)
	}
	return sess
}

func CreateSubjectFile(t *testing.T, repo study.Repository, subjectID int, name string) study.SubjectFile {
	t.Helper()
	file, err := repo.CreateSubjectFile(context.Background(), study.SubjectFile{
		SubjectID:   subjectID,
		FileName:    name,
		ContentType: "application/pdf",
		Size:        1024,
		StorageKey:  uuid.NewString(),
		UploadedAt:  time.Now().UTC().Truncate(time.Second),
	})
	if err != nil {
		t.Fatalf("CreateSubjectFile() failed: %v", err)
	}
	return file
}

func CreateRelatedLiterature(t *testing.T, repo study.Repository, subjectFileID int, title string) study.RelatedLiterature {
	t.Helper()
	lit, err := repo.CreateRelatedLiterature(context.Background(), study.RelatedLiterature{
		SubjectFileID: subjectFileID,
		Title:         title,
		Authors:       "A. Author",
		Source:        "Library",
	})
	if err != nil {
		t.Fatalf("CreateRelatedLiterature() failed: %v", err)
	}
	return lit
}

func CreateQuiz(t *testing.T, repo study.Repository, subjectFileID int) study.Quiz {
	t.Helper()
	quiz, err := repo.CreateQuiz(context.Background(), study.Quiz{
		SubjectFileID: subjectFileID,
		Title:         "Quiz",
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
	})
	if err != nil {
		t.Fatalf("CreateQuiz() failed: %v", err)
	}
	return quiz
}

func CreateQuizQuestion(t *testing.T, repo study.Repository, quizID, position int) study.QuizQuestion {
	t.Helper()
	q, err := repo.CreateQuizQuestion(context.Background(), study.QuizQuestion{
		QuizID:        quizID,
		Position:      position,
		QuestionText:  "2 + 2?",
		CorrectAnswer: "4",
	})
	if err != nil {
		t.Fatalf("CreateQuizQuestion() failed: %v", err)
	}
	return q
}

func CreateQuizAttempt(t *testing.T, repo study.Repository, quizID int) study.QuizAttempt {
	t.Helper()
	att, err := repo.CreateQuizAttempt(context.Background(), study.QuizAttempt{
		QuizID:         quizID,
		Score:          1,
		TotalQuestions: 1,
		AttemptedAt:    time.Now().UTC().Truncate(time.Second),
	})
	if err != nil {
		t.Fatalf("CreateQuizAttempt() failed: %v", err)
	}
	return att
}

func CreateQuizAnswer(t *testing.T, repo study.Repository, quizQuestionID int) study.QuizAnswer {
	t.Helper()
	ans, err := repo.CreateQuizAnswer(context.Background(), study.QuizAnswer{
		QuizQuestionID: quizQuestionID,
		AnswerText:     "4",
		IsCorrect:      true,
	})
	if err != nil {
		t.Fatalf("CreateQuizAnswer() failed: %v", err)
	}
	return ans
}

// Graph is one row of every table, linked together.
type Graph struct {
	Subject    study.Subject
	Schedule   study.Schedule
	Exam       study.ExamSchedule
	Session    study.StudySession // prepares Exam
	File       study.SubjectFile
	Literature study.RelatedLiterature
	Quiz       study.Quiz
	Question   study.QuizQuestion
	Attempt    study.QuizAttempt
	Answer     study.QuizAnswer
}

// CreateGraph creates a subject along with one descendant of each kind.
func CreateGraph(t *testing.T, repo study.Repository, name string) Graph {
	t.Helper()
	var g Graph
	g.Subject = CreateSubject(t, repo, name)
	g.Schedule = CreateSchedule(t, repo, g.Subject.ID, time.Wednesday)
	g.Exam = CreateExamSchedule(t, repo, g.Subject.ID, time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC))
	g.Session = CreateStudySession(t, repo, g.Subject.ID, null.IntFrom(g.Exam.ID))
	g.File = CreateSubjectFile(t, repo, g.Subject.ID, name+".pdf")
	g.Literature = CreateRelatedLiterature(t, repo, g.File.ID, name+" handbook")
	g.Quiz = CreateQuiz(t, repo, g.File.ID)
	g.Question = CreateQuizQuestion(t, repo, g.Quiz.ID, 1)
	g.Attempt = CreateQuizAttempt(t, repo, g.Quiz.ID)
	g.Answer = CreateQuizAnswer(t, repo, g.Question.ID)
	return g
}
