package sqlxrepos

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/studydesk/core"
	"github.com/trezcool/studydesk/core/study"
	"github.com/trezcool/studydesk/storage/database"
)

// Repository stores the study graph in postgres or SQLite.
// Foreign keys and their ON DELETE actions are enforced by the schema, see the migrations.
type Repository struct {
	db  *sqlx.DB
	ext sqlx.ExtContext // db, or the transaction of InTx
	tx  *sqlx.Tx
}

var _ study.Repository = (*Repository)(nil) // interface compliance check

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db, ext: db}
}

func (repo *Repository) InTx(ctx context.Context, fn func(repo study.Repository) error) error {
	if repo.tx != nil {
		return fn(repo)
	}

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return database.TrapError(err, "begin", "transaction", 0)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(&Repository{db: repo.db, ext: tx, tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Wrapf(err, "rolling back: %v", rbErr)
		}
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

type table struct {
	name    string
	columns []string // without id
}

var (
	subjectsTable          = table{study.TableSubjects, []string{"subject_name", "subject_description", "teacher"}}
	schedulesTable         = table{study.TableSchedules, []string{"subject_id", "day", "start_time", "end_time"}}
	examSchedulesTable     = table{study.TableExamSchedules, []string{"subject_id", "exam_date", "start_time", "end_time", "priority"}}
	studySessionsTable     = table{study.TableStudySessions, []string{"subject_id", "exam_schedule_id", "session_date", "start_time", "end_time", "notes"}}
	subjectFilesTable      = table{study.TableSubjectFiles, []string{"subject_id", "file_name", "content_type", "size", "storage_key", "uploaded_at"}}
	relatedLiteratureTable = table{study.TableRelatedLiterature, []string{"subject_file_id", "title", "authors", "source", "summary"}}
	quizzesTable           = table{study.TableQuizzes, []string{"subject_file_id", "title", "created_at"}}
	quizQuestionsTable     = table{study.TableQuizQuestions, []string{"quiz_id", "position", "question_text", "correct_answer"}}
	quizAttemptsTable      = table{study.TableQuizAttempts, []string{"quiz_id", "score", "total_questions", "attempted_at"}}
	quizAnswersTable       = table{study.TableQuizAnswers, []string{"quiz_question_id", "answer_text", "is_correct"}}
)

func (t table) selectQuery() string {
	return "SELECT id, " + strings.Join(t.columns, ", ") + " FROM " + t.name
}

func (t table) insertQuery() string {
	return "INSERT INTO " + t.name + " (" + strings.Join(t.columns, ", ") + ") VALUES (:" +
		strings.Join(t.columns, ", :") + ") RETURNING id"
}

func (t table) updateQuery() string {
	set := make([]string, 0, len(t.columns))
	for _, col := range t.columns {
		set = append(set, col+" = :"+col)
	}
	return "UPDATE " + t.name + " SET " + strings.Join(set, ", ") + " WHERE id = :id"
}

func insert[T any](ctx context.Context, repo *Repository, t table, value T) (int, error) {
	query, args, err := sqlx.Named(t.insertQuery(), value)
	if err != nil {
		return 0, errors.Wrapf(err, "binding %s", t.name)
	}
	var id int
	if err = sqlx.GetContext(ctx, repo.ext, &id, repo.ext.Rebind(query), args...); err != nil {
		return 0, database.TrapError(err, "insert", t.name, 0)
	}
	return id, nil
}

func update[T any](ctx context.Context, repo *Repository, t table, id int, value T) error {
	query, args, err := sqlx.Named(t.updateQuery(), value)
	if err != nil {
		return errors.Wrapf(err, "binding %s", t.name)
	}
	res, err := repo.ext.ExecContext(ctx, repo.ext.Rebind(query), args...)
	if err != nil {
		return database.TrapError(err, "update", t.name, id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "updating %s", t.name)
	}
	if n == 0 {
		return core.NewNotFoundError(t.name, id)
	}
	return nil
}

func get[T any](ctx context.Context, repo *Repository, t table, id int) (T, error) {
	var v T
	if err := sqlx.GetContext(ctx, repo.ext, &v, repo.ext.Rebind(t.selectQuery()+" WHERE id = ?"), id); err != nil {
		var zero T
		return zero, database.TrapError(err, "get", t.name, id)
	}
	return v, nil
}

// list runs a select of t; the result is never nil.
func list[T any](ctx context.Context, repo *Repository, t table, where, orderBy string, args ...interface{}) ([]T, error) {
	query := t.selectQuery()
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY " + orderBy

	result := make([]T, 0)
	if err := sqlx.SelectContext(ctx, repo.ext, &result, repo.ext.Rebind(query), args...); err != nil {
		return nil, database.TrapError(err, "query", t.name, 0)
	}
	return result, nil
}

func (repo *Repository) delete(ctx context.Context, t table, id int) error {
	res, err := repo.ext.ExecContext(ctx, repo.ext.Rebind("DELETE FROM "+t.name+" WHERE id = ?"), id)
	if err != nil {
		return database.TrapError(err, "delete", t.name, id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "deleting %s", t.name)
	}
	if n == 0 {
		return core.NewNotFoundError(t.name, id)
	}
	return nil
}

// Subjects

func (repo *Repository) CreateSubject(ctx context.Context, subj study.Subject) (study.Subject, error) {
	id, err := insert(ctx, repo, subjectsTable, subj)
	if err != nil {
		return study.Subject{}, err
	}
	subj.ID = id
	return subj, nil
}

func (repo *Repository) QuerySubjects(ctx context.Context, ordering []core.DBOrdering) ([]study.Subject, error) {
	orderBy := make([]string, 0, len(ordering)+1)
	for _, ord := range study.CleanOrdering(ordering, study.SubjectOrderingFields) {
		orderBy = append(orderBy, ord.String())
	}
	orderBy = append(orderBy, "id")
	return list[study.Subject](ctx, repo, subjectsTable, "", strings.Join(orderBy, ", "))
}

func (repo *Repository) GetSubject(ctx context.Context, id int) (study.Subject, error) {
	return get[study.Subject](ctx, repo, subjectsTable, id)
}

func (repo *Repository) UpdateSubject(ctx context.Context, subj study.Subject) (study.Subject, error) {
	if err := update(ctx, repo, subjectsTable, subj.ID, subj); err != nil {
		return study.Subject{}, err
	}
	return subj, nil
}

func (repo *Repository) DeleteSubject(ctx context.Context, id int) error {
	return repo.delete(ctx, subjectsTable, id)
}

// Schedules

func (repo *Repository) CreateSchedule(ctx context.Context, sched study.Schedule) (study.Schedule, error) {
	id, err := insert(ctx, repo, schedulesTable, sched)
	if err != nil {
		return study.Schedule{}, err
	}
	sched.ID = id
	return sched, nil
}

func (repo *Repository) QuerySchedules(ctx context.Context, subjectID int) ([]study.Schedule, error) {
	return list[study.Schedule](ctx, repo, schedulesTable, "subject_id = ?", "id", subjectID)
}

func (repo *Repository) GetSchedule(ctx context.Context, id int) (study.Schedule, error) {
	return get[study.Schedule](ctx, repo, schedulesTable, id)
}

func (repo *Repository) UpdateSchedule(ctx context.Context, sched study.Schedule) (study.Schedule, error) {
	if err := update(ctx, repo, schedulesTable, sched.ID, sched); err != nil {
		return study.Schedule{}, err
	}
	return sched, nil
}

func (repo *Repository) DeleteSchedule(ctx context.Context, id int) error {
	return repo.delete(ctx, schedulesTable, id)
}

// Exam schedules

func utcExam(exam study.ExamSchedule) study.ExamSchedule {
	exam.ExamDate = exam.ExamDate.UTC()
	return exam
}

func (repo *Repository) CreateExamSchedule(ctx context.Context, exam study.ExamSchedule) (study.ExamSchedule, error) {
	exam = utcExam(exam)
	id, err := insert(ctx, repo, examSchedulesTable, exam)
	if err != nil {
		return study.ExamSchedule{}, err
	}
	exam.ID = id
	return exam, nil
}

func (repo *Repository) QueryExamSchedules(ctx context.Context, subjectID int) ([]study.ExamSchedule, error) {
	exams, err := list[study.ExamSchedule](ctx, repo, examSchedulesTable, "subject_id = ?", "id", subjectID)
	for i := range exams {
		exams[i] = utcExam(exams[i])
	}
	return exams, err
}

func (repo *Repository) GetExamSchedule(ctx context.Context, id int) (study.ExamSchedule, error) {
	exam, err := get[study.ExamSchedule](ctx, repo, examSchedulesTable, id)
	return utcExam(exam), err
}

func (repo *Repository) UpdateExamSchedule(ctx context.Context, exam study.ExamSchedule) (study.ExamSchedule, error) {
	exam = utcExam(exam)
	if err := update(ctx, repo, examSchedulesTable, exam.ID, exam); err != nil {
		return study.ExamSchedule{}, err
	}
	return exam, nil
}

func (repo *Repository) DeleteExamSchedule(ctx context.Context, id int) error {
	return repo.delete(ctx, examSchedulesTable, id)
}

// Study sessions

func utcSession(sess study.StudySession) study.StudySession {
	sess.SessionDate = sess.SessionDate.UTC()
	return sess
}

func (repo *Repository) CreateStudySession(ctx context.Context, sess study.StudySession) (study.StudySession, error) {
	sess = utcSession(sess)
	id, err := insert(ctx, repo, studySessionsTable, sess)
	if err != nil {
		return study.StudySession{}, err
	}
	sess.ID = id
	return sess, nil
}

func (repo *Repository) QueryStudySessions(ctx context.Context, filter study.StudySessionFilter) ([]study.StudySession, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.SubjectID != 0 {
		conds = append(conds, "subject_id = ?")
		args = append(args, filter.SubjectID)
	}
	if filter.ExamScheduleID != 0 {
		conds = append(conds, "exam_schedule_id = ?")
		args = append(args, filter.ExamScheduleID)
	}

	sessions, err := list[study.StudySession](ctx, repo, studySessionsTable, strings.Join(conds, " AND "), "id", args...)
	for i := range sessions {
		sessions[i] = utcSession(sessions[i])
	}
	return sessions, err
}

func (repo *Repository) GetStudySession(ctx context.Context, id int) (study.StudySession, error) {
	sess, err := get[study.StudySession](ctx, repo, studySessionsTable, id)
	return utcSession(sess), err
}

func (repo *Repository) UpdateStudySession(ctx context.Context, sess study.StudySession) (study.StudySession, error) {
	sess = utcSession(sess)
	if err := update(ctx, repo, studySessionsTable, sess.ID, sess); err != nil {
		return study.StudySession{}, err
	}
	return sess, nil
}

func (repo *Repository) DeleteStudySession(ctx context.Context, id int) error {
	return repo.delete(ctx, studySessionsTable, id)
}

// Subject files

func utcFile(file study.SubjectFile) study.SubjectFile {
	file.UploadedAt = file.UploadedAt.UTC()
	return file
}

func (repo *Repository) CreateSubjectFile(ctx context.Context, file study.SubjectFile) (study.SubjectFile, error) {
	file = utcFile(file)
	id, err := insert(ctx, repo, subjectFilesTable, file)
	if err != nil {
		return study.SubjectFile{}, err
	}
	file.ID = id
	return file, nil
}

func (repo *Repository) QuerySubjectFiles(ctx context.Context, subjectID int) ([]study.SubjectFile, error) {
	files, err := list[study.SubjectFile](ctx, repo, subjectFilesTable, "subject_id = ?", "id", subjectID)
	for i := range files {
		files[i] = utcFile(files[i])
	}
	return files, err
}

func (repo *Repository) GetSubjectFile(ctx context.Context, id int) (study.SubjectFile, error) {
	file, err := get[study.SubjectFile](ctx, repo, subjectFilesTable, id)
	return utcFile(file), err
}

func (repo *Repository) DeleteSubjectFile(ctx context.Context, id int) error {
	return repo.delete(ctx, subjectFilesTable, id)
}

// Related literature

func (repo *Repository) CreateRelatedLiterature(ctx context.Context, lit study.RelatedLiterature) (study.RelatedLiterature, error) {
	id, err := insert(ctx, repo, relatedLiteratureTable, lit)
	if err != nil {
		return study.RelatedLiterature{}, err
	}
	lit.ID = id
	return lit, nil
}

func (repo *Repository) QueryRelatedLiterature(ctx context.Context, subjectFileID int) ([]study.RelatedLiterature, error) {
	return list[study.RelatedLiterature](ctx, repo, relatedLiteratureTable, "subject_file_id = ?", "id", subjectFileID)
}

func (repo *Repository) GetRelatedLiterature(ctx context.Context, id int) (study.RelatedLiterature, error) {
	return get[study.RelatedLiterature](ctx, repo, relatedLiteratureTable, id)
}

func (repo *Repository) DeleteRelatedLiterature(ctx context.Context, id int) error {
	return repo.delete(ctx, relatedLiteratureTable, id)
}

// Quizzes

func utcQuiz(quiz study.Quiz) study.Quiz {
	quiz.CreatedAt = quiz.CreatedAt.UTC()
	return quiz
}

func (repo *Repository) CreateQuiz(ctx context.Context, quiz study.Quiz) (study.Quiz, error) {
	quiz = utcQuiz(quiz)
	id, err := insert(ctx, repo, quizzesTable, quiz)
	if err != nil {
		return study.Quiz{}, err
	}
	quiz.ID = id
	return quiz, nil
}

func (repo *Repository) QueryQuizzes(ctx context.Context, subjectFileID int) ([]study.Quiz, error) {
	quizzes, err := list[study.Quiz](ctx, repo, quizzesTable, "subject_file_id = ?", "id", subjectFileID)
	for i := range quizzes {
		quizzes[i] = utcQuiz(quizzes[i])
	}
	return quizzes, err
}

func (repo *Repository) GetQuiz(ctx context.Context, id int) (study.Quiz, error) {
	quiz, err := get[study.Quiz](ctx, repo, quizzesTable, id)
	return utcQuiz(quiz), err
}

func (repo *Repository) DeleteQuiz(ctx context.Context, id int) error {
	return repo.delete(ctx, quizzesTable, id)
}

// Quiz questions

func (repo *Repository) CreateQuizQuestion(ctx context.Context, q study.QuizQuestion) (study.QuizQuestion, error) {
	id, err := insert(ctx, repo, quizQuestionsTable, q)
	if err != nil {
		return study.QuizQuestion{}, err
	}
	q.ID = id
	return q, nil
}

func (repo *Repository) QueryQuizQuestions(ctx context.Context, quizID int) ([]study.QuizQuestion, error) {
	return list[study.QuizQuestion](ctx, repo, quizQuestionsTable, "quiz_id = ?", "position, id", quizID)
}

func (repo *Repository) GetQuizQuestion(ctx context.Context, id int) (study.QuizQuestion, error) {
	return get[study.QuizQuestion](ctx, repo, quizQuestionsTable, id)
}

func (repo *Repository) DeleteQuizQuestion(ctx context.Context, id int) error {
	return repo.delete(ctx, quizQuestionsTable, id)
}

// Quiz attempts

func utcAttempt(att study.QuizAttempt) study.QuizAttempt {
	att.AttemptedAt = att.AttemptedAt.UTC()
	return att
}

func (repo *Repository) CreateQuizAttempt(ctx context.Context, att study.QuizAttempt) (study.QuizAttempt, error) {
	att = utcAttempt(att)
	id, err := insert(ctx, repo, quizAttemptsTable, att)
	if err != nil {
		return study.QuizAttempt{}, err
	}
	att.ID = id
	return att, nil
}

func (repo *Repository) QueryQuizAttempts(ctx context.Context, quizID int) ([]study.QuizAttempt, error) {
	attempts, err := list[study.QuizAttempt](ctx, repo, quizAttemptsTable, "quiz_id = ?", "id", quizID)
	for i := range attempts {
		attempts[i] = utcAttempt(attempts[i])
	}
	return attempts, err
}

func (repo *Repository) GetQuizAttempt(ctx context.Context, id int) (study.QuizAttempt, error) {
	att, err := get[study.QuizAttempt](ctx, repo, quizAttemptsTable, id)
	return utcAttempt(att), err
}

func (repo *Repository) DeleteQuizAttempt(ctx context.Context, id int) error {
	return repo.delete(ctx, quizAttemptsTable, id)
}

// Quiz answers

func (repo *Repository) CreateQuizAnswer(ctx context.Context, ans study.QuizAnswer) (study.QuizAnswer, error) {
	id, err := insert(ctx, repo, quizAnswersTable, ans)
	if err != nil {
		return study.QuizAnswer{}, err
	}
	ans.ID = id
	return ans, nil
}

func (repo *Repository) QueryQuizAnswers(ctx context.Context, quizQuestionID int) ([]study.QuizAnswer, error) {
	return list[study.QuizAnswer](ctx, repo, quizAnswersTable, "quiz_question_id = ?", "id", quizQuestionID)
}

func (repo *Repository) GetQuizAnswer(ctx context.Context, id int) (study.QuizAnswer, error) {
	return get[study.QuizAnswer](ctx, repo, quizAnswersTable, id)
}

func (repo *Repository) DeleteQuizAnswer(ctx context.Context, id int) error {
	return repo.delete(ctx, quizAnswersTable, id)
}
