package study

import (
	"context"

	"github.com/trezcool/studydesk/core"
)

// Repository is the persistence contract of the study graph.
//
// Get* and Delete* return a *core.NotFoundError for unknown IDs.
// Writes breaking a foreign key, including deletes blocked by a Restrict relation, return a
// *core.IntegrityError. A store that cannot be reached returns a *core.UnavailableError.
// Query* results are in insertion order (ascending ID) unless an ordering is given.
type Repository interface {
	CreateSubject(ctx context.Context, subj Subject) (Subject, error)
	QuerySubjects(ctx context.Context, ordering []core.DBOrdering) ([]Subject, error)
	GetSubject(ctx context.Context, id int) (Subject, error)
	UpdateSubject(ctx context.Context, subj Subject) (Subject, error)
	DeleteSubject(ctx context.Context, id int) error

	CreateSchedule(ctx context.Context, sched Schedule) (Schedule, error)
	QuerySchedules(ctx context.Context, subjectID int) ([]Schedule, error)
	GetSchedule(ctx context.Context, id int) (Schedule, error)
	UpdateSchedule(ctx context.Context, sched Schedule) (Schedule, error)
	DeleteSchedule(ctx context.Context, id int) error

	CreateExamSchedule(ctx context.Context, exam ExamSchedule) (ExamSchedule, error)
	QueryExamSchedules(ctx context.Context, subjectID int) ([]ExamSchedule, error)
	GetExamSchedule(ctx context.Context, id int) (ExamSchedule, error)
	UpdateExamSchedule(ctx context.Context, exam ExamSchedule) (ExamSchedule, error)
	DeleteExamSchedule(ctx context.Context, id int) error

	CreateStudySession(ctx context.Context, sess StudySession) (StudySession, error)
	QueryStudySessions(ctx context.Context, filter StudySessionFilter) ([]StudySession, error)
	GetStudySession(ctx context.Context, id int) (StudySession, error)
	UpdateStudySession(ctx context.Context, sess StudySession) (StudySession, error)
	DeleteStudySession(ctx context.Context, id int) error

	CreateSubjectFile(ctx context.Context, file SubjectFile) (SubjectFile, error)
	QuerySubjectFiles(ctx context.Context, subjectID int) ([]SubjectFile, error)
	GetSubjectFile(ctx context.Context, id int) (SubjectFile, error)
	DeleteSubjectFile(ctx context.Context, id int) error

	CreateRelatedLiterature(ctx context.Context, lit RelatedLiterature) (RelatedLiterature, error)
	QueryRelatedLiterature(ctx context.Context, subjectFileID int) ([]RelatedLiterature, error)
	GetRelatedLiterature(ctx context.Context, id int) (RelatedLiterature, error)
	DeleteRelatedLiterature(ctx context.Context, id int) error

	CreateQuiz(ctx context.Context, quiz Quiz) (Quiz, error)
	QueryQuizzes(ctx context.Context, subjectFileID int) ([]Quiz, error)
	GetQuiz(ctx context.Context, id int) (Quiz, error)
	DeleteQuiz(ctx context.Context, id int) error

	CreateQuizQuestion(ctx context.Context, q QuizQuestion) (QuizQuestion, error)
	QueryQuizQuestions(ctx context.Context, quizID int) ([]QuizQuestion, error)
	GetQuizQuestion(ctx context.Context, id int) (QuizQuestion, error)
	DeleteQuizQuestion(ctx context.Context, id int) error

	CreateQuizAttempt(ctx context.Context, att QuizAttempt) (QuizAttempt, error)
	QueryQuizAttempts(ctx context.Context, quizID int) ([]QuizAttempt, error)
	GetQuizAttempt(ctx context.Context, id int) (QuizAttempt, error)
	DeleteQuizAttempt(ctx context.Context, id int) error

	CreateQuizAnswer(ctx context.Context, ans QuizAnswer) (QuizAnswer, error)
	QueryQuizAnswers(ctx context.Context, quizQuestionID int) ([]QuizAnswer, error)
	GetQuizAnswer(ctx context.Context, id int) (QuizAnswer, error)
	DeleteQuizAnswer(ctx context.Context, id int) error

	// InTx runs fn in a single transaction: if fn returns an error, none of its writes are kept.
	// Nested calls join the outer transaction.
	InTx(ctx context.Context, fn func(repo Repository) error) error
}

// SubjectOrderingFields are the fields QuerySubjects may be ordered by.
var SubjectOrderingFields = []string{"id", "subject_name", "teacher"}

// CleanOrdering drops orderings on fields outside of allowed.
func CleanOrdering(ordering []core.DBOrdering, allowed []string) []core.DBOrdering {
	cleaned := make([]core.DBOrdering, 0, len(ordering))
	for _, ord := range ordering {
		for _, fld := range allowed {
			if ord.Field == fld {
				cleaned = append(cleaned, ord)
				break
			}
		}
	}
	return cleaned
}
