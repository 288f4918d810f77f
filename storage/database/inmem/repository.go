package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/studydesk/core"
	"github.com/trezcool/studydesk/core/study"
)

type Repository struct {
	db   *DB
	inTx bool // the write lock is held by InTx
}

var _ study.Repository = (*Repository)(nil) // interface compliance check

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

func (repo *Repository) lock() func() {
	if repo.inTx {
		return func() {}
	}
	repo.db.mutex.Lock()
	return repo.db.mutex.Unlock
}

func (repo *Repository) rlock() func() {
	if repo.inTx {
		return func() {}
	}
	repo.db.mutex.RLock()
	return repo.db.mutex.RUnlock
}

func (repo *Repository) InTx(ctx context.Context, fn func(repo study.Repository) error) error {
	if repo.inTx {
		return fn(repo)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	snap := repo.db.snapshot()
	defer func() {
		if p := recover(); p != nil {
			repo.db.tables = snap
			panic(p)
		}
	}()

	if err := fn(&Repository{db: repo.db, inTx: true}); err != nil {
		repo.db.tables = snap // rollback
		return err
	}
	return nil
}

func insert[T any](repo *Repository, name string, value T, withID func(T, int) T) (T, error) {
	defer repo.lock()()
	v, err := repo.db.insert(name, value, func(id int) interface{} { return withID(value, id) })
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func update[T any](repo *Repository, name string, id int, value T) (T, error) {
	defer repo.lock()()
	if err := repo.db.update(name, id, value); err != nil {
		var zero T
		return zero, err
	}
	return value, nil
}

func get[T any](repo *Repository, name string, id int) (T, error) {
	defer repo.rlock()()
	v, err := repo.db.get(name, id)
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func list[T any](repo *Repository, name, column string, parentID int) []T {
	defer repo.rlock()()
	values := repo.db.list(name, column, parentID)
	result := make([]T, 0, len(values))
	for _, v := range values {
		result = append(result, v.(T))
	}
	return result
}

func (repo *Repository) delete(name string, id int) error {
	defer repo.lock()()
	return repo.db.delete(name, id)
}

// Subjects

func (repo *Repository) CreateSubject(ctx context.Context, subj study.Subject) (study.Subject, error) {
	return insert(repo, study.TableSubjects, subj, func(s study.Subject, id int) study.Subject { s.ID = id; return s })
}

func (repo *Repository) QuerySubjects(ctx context.Context, ordering []core.DBOrdering) ([]study.Subject, error) {
	subjects := list[study.Subject](repo, study.TableSubjects, "", 0)
	ordering = study.CleanOrdering(ordering, study.SubjectOrderingFields)
	if len(ordering) > 0 {
		sort.SliceStable(subjects, func(i, j int) bool {
			for _, ord := range ordering {
				if c := compareSubjects(subjects[i], subjects[j], ord.Field); c != 0 {
					return (c < 0) == ord.Ascending
				}
			}
			return false
		})
	}
	return subjects, nil
}

func compareSubjects(a, b study.Subject, field string) int {
	switch field {
	case "subject_name":
		return strings.Compare(a.SubjectName, b.SubjectName)
	case "teacher":
		return strings.Compare(a.Teacher, b.Teacher)
	default:
		return a.ID - b.ID
	}
}

func (repo *Repository) GetSubject(ctx context.Context, id int) (study.Subject, error) {
	return get[study.Subject](repo, study.TableSubjects, id)
}

func (repo *Repository) UpdateSubject(ctx context.Context, subj study.Subject) (study.Subject, error) {
	return update(repo, study.TableSubjects, subj.ID, subj)
}

func (repo *Repository) DeleteSubject(ctx context.Context, id int) error {
	return repo.delete(study.TableSubjects, id)
}

// Schedules

func (repo *Repository) CreateSchedule(ctx context.Context, sched study.Schedule) (study.Schedule, error) {
	return insert(repo, study.TableSchedules, sched, func(s study.Schedule, id int) study.Schedule { s.ID = id; return s })
}

func (repo *Repository) QuerySchedules(ctx context.Context, subjectID int) ([]study.Schedule, error) {
	return list[study.Schedule](repo, study.TableSchedules, "subject_id", subjectID), nil
}

func (repo *Repository) GetSchedule(ctx context.Context, id int) (study.Schedule, error) {
	return get[study.Schedule](repo, study.TableSchedules, id)
}

func (repo *Repository) UpdateSchedule(ctx context.Context, sched study.Schedule) (study.Schedule, error) {
	return update(repo, study.TableSchedules, sched.ID, sched)
}

func (repo *Repository) DeleteSchedule(ctx context.Context, id int) error {
	return repo.delete(study.TableSchedules, id)
}

// Exam schedules

func (repo *Repository) CreateExamSchedule(ctx context.Context, exam study.ExamSchedule) (study.ExamSchedule, error) {
	return insert(repo, study.TableExamSchedules, exam, func(e study.ExamSchedule, id int) study.ExamSchedule { e.ID = id; return e })
}

func (repo *Repository) QueryExamSchedules(ctx context.Context, subjectID int) ([]study.ExamSchedule, error) {
	return list[study.ExamSchedule](repo, study.TableExamSchedules, "subject_id", subjectID), nil
}

func (repo *Repository) GetExamSchedule(ctx context.Context, id int) (study.ExamSchedule, error) {
	return get[study.ExamSchedule](repo, study.TableExamSchedules, id)
}

func (repo *Repository) UpdateExamSchedule(ctx context.Context, exam study.ExamSchedule) (study.ExamSchedule, error) {
	return update(repo, study.TableExamSchedules, exam.ID, exam)
}

func (repo *Repository) DeleteExamSchedule(ctx context.Context, id int) error {
	return repo.delete(study.TableExamSchedules, id)
}

// Study sessions

func (repo *Repository) CreateStudySession(ctx context.Context, sess study.StudySession) (study.StudySession, error) {
	return insert(repo, study.TableStudySessions, sess, func(s study.StudySession, id int) study.StudySession { s.ID = id; return s })
}

func (repo *Repository) QueryStudySessions(ctx context.Context, filter study.StudySessionFilter) ([]study.StudySession, error) {
	sessions := list[study.StudySession](repo, study.TableStudySessions, "", 0)
	filtered := sessions[:0]
	for _, sess := range sessions {
		if filter.SubjectID != 0 && sess.SubjectID != filter.SubjectID {
			continue
		}
		if filter.ExamScheduleID != 0 && (!sess.ExamScheduleID.Valid || sess.ExamScheduleID.Int != filter.ExamScheduleID) {
			continue
		}
		filtered = append(filtered, sess)
	}
	return filtered, nil
}

func (repo *Repository) GetStudySession(ctx context.Context, id int) (study.StudySession, error) {
	return get[study.StudySession](repo, study.TableStudySessions, id)
}

func (repo *Repository) UpdateStudySession(ctx context.Context, sess study.StudySession) (study.StudySession, error) {
	return update(repo, study.TableStudySessions, sess.ID, sess)
}

func (repo *Repository) DeleteStudySession(ctx context.Context, id int) error {
	return repo.delete(study.TableStudySessions, id)
}

// Subject files

func (repo *Repository) CreateSubjectFile(ctx context.Context, file study.SubjectFile) (study.SubjectFile, error) {
	return insert(repo, study.TableSubjectFiles, file, func(f study.SubjectFile, id int) study.SubjectFile { f.ID = id; return f })
}

func (repo *Repository) QuerySubjectFiles(ctx context.Context, subjectID int) ([]study.SubjectFile, error) {
	return list[study.SubjectFile](repo, study.TableSubjectFiles, "subject_id", subjectID), nil
}

func (repo *Repository) GetSubjectFile(ctx context.Context, id int) (study.SubjectFile, error) {
	return get[study.SubjectFile](repo, study.TableSubjectFiles, id)
}

func (repo *Repository) DeleteSubjectFile(ctx context.Context, id int) error {
	return repo.delete(study.TableSubjectFiles, id)
}

// Related literature

func (repo *Repository) CreateRelatedLiterature(ctx context.Context, lit study.RelatedLiterature) (study.RelatedLiterature, error) {
	return insert(repo, study.TableRelatedLiterature, lit, func(l study.RelatedLiterature, id int) study.RelatedLiterature { l.ID = id; return l })
}

func (repo *Repository) QueryRelatedLiterature(ctx context.Context, subjectFileID int) ([]study.RelatedLiterature, error) {
	return list[study.RelatedLiterature](repo, study.TableRelatedLiterature, "subject_file_id", subjectFileID), nil
}

func (repo *Repository) GetRelatedLiterature(ctx context.Context, id int) (study.RelatedLiterature, error) {
	return get[study.RelatedLiterature](repo, study.TableRelatedLiterature, id)
}

func (repo *Repository) DeleteRelatedLiterature(ctx context.Context, id int) error {
	return repo.delete(study.TableRelatedLiterature, id)
}

// Quizzes

func (repo *Repository) CreateQuiz(ctx context.Context, quiz study.Quiz) (study.Quiz, error) {
	return insert(repo, study.TableQuizzes, quiz, func(q study.Quiz, id int) study.Quiz { q.ID = id; return q })
}

func (repo *Repository) QueryQuizzes(ctx context.Context, subjectFileID int) ([]study.Quiz, error) {
	return list[study.Quiz](repo, study.TableQuizzes, "subject_file_id", subjectFileID), nil
}

func (repo *Repository) GetQuiz(ctx context.Context, id int) (study.Quiz, error) {
	return get[study.Quiz](repo, study.TableQuizzes, id)
}

func (repo *Repository) DeleteQuiz(ctx context.Context, id int) error {
	return repo.delete(study.TableQuizzes, id)
}

// Quiz questions

func (repo *Repository) CreateQuizQuestion(ctx context.Context, q study.QuizQuestion) (study.QuizQuestion, error) {
	return insert(repo, study.TableQuizQuestions, q, func(q study.QuizQuestion, id int) study.QuizQuestion { q.ID = id; return q })
}

// QueryQuizQuestions returns the questions by position.
func (repo *Repository) QueryQuizQuestions(ctx context.Context, quizID int) ([]study.QuizQuestion, error) {
	questions := list[study.QuizQuestion](repo, study.TableQuizQuestions, "quiz_id", quizID)
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].Position < questions[j].Position })
	return questions, nil
}

func (repo *Repository) GetQuizQuestion(ctx context.Context, id int) (study.QuizQuestion, error) {
	return get[study.QuizQuestion](repo, study.TableQuizQuestions, id)
}

func (repo *Repository) DeleteQuizQuestion(ctx context.Context, id int) error {
	return repo.delete(study.TableQuizQuestions, id)
}

// Quiz attempts

func (repo *Repository) CreateQuizAttempt(ctx context.Context, att study.QuizAttempt) (study.QuizAttempt, error) {
	return insert(repo, study.TableQuizAttempts, att, func(a study.QuizAttempt, id int) study.QuizAttempt { a.ID = id; return a })
}

func (repo *Repository) QueryQuizAttempts(ctx context.Context, quizID int) ([]study.QuizAttempt, error) {
	return list[study.QuizAttempt](repo, study.TableQuizAttempts, "quiz_id", quizID), nil
}

func (repo *Repository) GetQuizAttempt(ctx context.Context, id int) (study.QuizAttempt, error) {
	return get[study.QuizAttempt](repo, study.TableQuizAttempts, id)
}

func (repo *Repository) DeleteQuizAttempt(ctx context.Context, id int) error {
	return repo.delete(study.TableQuizAttempts, id)
}

// Quiz answers

func (repo *Repository) CreateQuizAnswer(ctx context.Context, ans study.QuizAnswer) (study.QuizAnswer, error) {
	return insert(repo, study.TableQuizAnswers, ans, func(a study.QuizAnswer, id int) study.QuizAnswer { a.ID = id; return a })
}

func (repo *Repository) QueryQuizAnswers(ctx context.Context, quizQuestionID int) ([]study.QuizAnswer, error) {
	return list[study.QuizAnswer](repo, study.TableQuizAnswers, "quiz_question_id", quizQuestionID), nil
}

func (repo *Repository) GetQuizAnswer(ctx context.Context, id int) (study.QuizAnswer, error) {
	return get[study.QuizAnswer](repo, study.TableQuizAnswers, id)
}

func (repo *Repository) DeleteQuizAnswer(ctx context.Context, id int) error {
	return repo.delete(study.TableQuizAnswers, id)
}
