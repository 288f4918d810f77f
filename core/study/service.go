package study

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/studydesk/core"
)

var (
	// errors
	errLiteratureExists   = errors.New("a similar title is already listed for this file")
	errNoQuestions        = errors.New("the generator produced no questions")
	errForeignQuestion    = errors.New("question does not belong to this quiz")
	errExamOfOtherSubject = errors.New("exam schedule belongs to another subject")
	errSessionsOfSubject  = errors.New("study sessions of another subject prepare this exam")

	nowFunc = time.Now // mockable
)

type Service struct {
	repo     Repository
	validate *validator.Validate
	logger   core.Logger
}

func NewService(repo Repository, validate *validator.Validate, logger core.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: validate,
		logger:   logger,
	}
}

// Subjects

func (svc *Service) CreateSubject(ctx context.Context, ns NewSubject) (Subject, error) {
	ns.SubjectName = core.CleanString(ns.SubjectName)
	ns.SubjectDescription = core.CleanString(ns.SubjectDescription)
	ns.Teacher = core.CleanString(ns.Teacher)
	if err := svc.validate.Struct(ns); err != nil {
		return Subject{}, err
	}
	return svc.repo.CreateSubject(ctx, Subject{
		SubjectName:        ns.SubjectName,
		SubjectDescription: ns.SubjectDescription,
		Teacher:            ns.Teacher,
	})
}

func (svc *Service) QuerySubjects(ctx context.Context, ordering []core.DBOrdering) ([]Subject, error) {
	return svc.repo.QuerySubjects(ctx, CleanOrdering(ordering, SubjectOrderingFields))
}

func (svc *Service) GetSubject(ctx context.Context, id int) (Subject, error) {
	return svc.repo.GetSubject(ctx, id)
}

func (svc *Service) UpdateSubject(ctx context.Context, id int, us UpdateSubject) (Subject, error) {
	subj, err := svc.repo.GetSubject(ctx, id)
	if err != nil {
		return Subject{}, err
	}
	if name := core.CleanString(us.SubjectName); name != "" {
		subj.SubjectName = name
	}
	if desc := core.CleanString(us.SubjectDescription); desc != "" {
		subj.SubjectDescription = desc
	}
	if teacher := core.CleanString(us.Teacher); teacher != "" {
		subj.Teacher = teacher
	}
	if err = svc.validate.Struct(us); err != nil {
		return Subject{}, err
	}
	return svc.repo.UpdateSubject(ctx, subj)
}

// DeleteSubject deletes the subject along with everything it owns.
func (svc *Service) DeleteSubject(ctx context.Context, id int) error {
	if err := svc.repo.DeleteSubject(ctx, id); err != nil {
		return err
	}
	svc.logger.Info("subject deleted", map[string]interface{}{"subject_id": id})
	return nil
}

// Schedules

func (svc *Service) CreateSchedule(ctx context.Context, ns NewSchedule) (Schedule, error) {
	ns = ns.clean()
	if err := svc.validate.Struct(ns); err != nil {
		return Schedule{}, err
	}
	return svc.repo.CreateSchedule(ctx, Schedule{
		SubjectID: ns.SubjectID,
		Day:       ns.Day,
		StartTime: ns.StartTime,
		EndTime:   ns.EndTime,
	})
}

func (svc *Service) QuerySchedules(ctx context.Context, subjectID int) ([]Schedule, error) {
	return svc.repo.QuerySchedules(ctx, subjectID)
}

func (svc *Service) GetSchedule(ctx context.Context, id int) (Schedule, error) {
	return svc.repo.GetSchedule(ctx, id)
}

// UpdateSchedule replaces every field of the schedule.
func (svc *Service) UpdateSchedule(ctx context.Context, id int, ns NewSchedule) (Schedule, error) {
	ns = ns.clean()
	if err := svc.validate.Struct(ns); err != nil {
		return Schedule{}, err
	}
	return svc.repo.UpdateSchedule(ctx, Schedule{
		ID:        id,
		SubjectID: ns.SubjectID,
		Day:       ns.Day,
		StartTime: ns.StartTime,
		EndTime:   ns.EndTime,
	})
}

func (svc *Service) DeleteSchedule(ctx context.Context, id int) error {
	return svc.repo.DeleteSchedule(ctx, id)
}

// Exam schedules

func (svc *Service) CreateExamSchedule(ctx context.Context, ne NewExamSchedule) (ExamSchedule, error) {
	ne = ne.clean()
	if err := svc.validate.Struct(ne); err != nil {
		return ExamSchedule{}, err
	}
	return svc.repo.CreateExamSchedule(ctx, ExamSchedule{
		SubjectID: ne.SubjectID,
		ExamDate:  ne.ExamDate,
		StartTime: ne.StartTime,
		EndTime:   ne.EndTime,
		Priority:  ne.Priority,
	})
}

func (svc *Service) QueryExamSchedules(ctx context.Context, subjectID int) ([]ExamSchedule, error) {
	return svc.repo.QueryExamSchedules(ctx, subjectID)
}

func (svc *Service) GetExamSchedule(ctx context.Context, id int) (ExamSchedule, error) {
	return svc.repo.GetExamSchedule(ctx, id)
}

// UpdateExamSchedule replaces every field of the exam schedule.
// Moving the exam to another subject is rejected while sessions of its current subject prepare it.
func (svc *Service) UpdateExamSchedule(ctx context.Context, id int, ne NewExamSchedule) (ExamSchedule, error) {
	ne = ne.clean()
	if err := svc.validate.Struct(ne); err != nil {
		return ExamSchedule{}, err
	}

	var exam ExamSchedule
	err := svc.repo.InTx(ctx, func(repo Repository) error {
		sessions, err := repo.QueryStudySessions(ctx, StudySessionFilter{ExamScheduleID: id})
		if err != nil {
			return err
		}
		for _, sess := range sessions {
			if sess.SubjectID != ne.SubjectID {
				return core.NewValidationError(errSessionsOfSubject, core.FieldError{
					Field: "subject_id",
					Error: errSessionsOfSubject.Error(),
				})
			}
		}
		exam, err = repo.UpdateExamSchedule(ctx, ExamSchedule{
			ID:        id,
			SubjectID: ne.SubjectID,
			ExamDate:  ne.ExamDate,
			StartTime: ne.StartTime,
			EndTime:   ne.EndTime,
			Priority:  ne.Priority,
		})
		return err
	})
	if err != nil {
		return ExamSchedule{}, err
	}
	return exam, nil
}

// DeleteExamSchedule fails with a *core.IntegrityError while study sessions still reference the
// exam: they must be reassigned or deleted first.
func (svc *Service) DeleteExamSchedule(ctx context.Context, id int) error {
	if err := svc.repo.DeleteExamSchedule(ctx, id); err != nil {
		if core.IsIntegrityViolation(err) {
			svc.logger.Warn("exam schedule still has study sessions", map[string]interface{}{"exam_schedule_id": id})
		}
		return err
	}
	return nil
}

// Study sessions

func (svc *Service) CreateStudySession(ctx context.Context, ns NewStudySession) (StudySession, error) {
	ns = ns.clean()
	if err := svc.validate.Struct(ns); err != nil {
		return StudySession{}, err
	}
	if err := svc.checkSessionExam(ctx, ns.SubjectID, ns.ExamScheduleID); err != nil {
		return StudySession{}, err
	}
	return svc.repo.CreateStudySession(ctx, StudySession{
		SubjectID:      ns.SubjectID,
		ExamScheduleID: ns.ExamScheduleID,
		SessionDate:    ns.SessionDate,
		StartTime:      ns.StartTime,
		EndTime:        ns.EndTime,
		Notes:          ns.Notes,
	})
}

func (svc *Service) QueryStudySessions(ctx context.Context, filter StudySessionFilter) ([]StudySession, error) {
	return svc.repo.QueryStudySessions(ctx, filter)
}

func (svc *Service) GetStudySession(ctx context.Context, id int) (StudySession, error) {
	return svc.repo.GetStudySession(ctx, id)
}

// UpdateStudySession replaces every field of the study session.
func (svc *Service) UpdateStudySession(ctx context.Context, id int, ns NewStudySession) (StudySession, error) {
	ns = ns.clean()
	if err := svc.validate.Struct(ns); err != nil {
		return StudySession{}, err
	}
	if err := svc.checkSessionExam(ctx, ns.SubjectID, ns.ExamScheduleID); err != nil {
		return StudySession{}, err
	}
	return svc.repo.UpdateStudySession(ctx, StudySession{
		ID:             id,
		SubjectID:      ns.SubjectID,
		ExamScheduleID: ns.ExamScheduleID,
		SessionDate:    ns.SessionDate,
		StartTime:      ns.StartTime,
		EndTime:        ns.EndTime,
		Notes:          ns.Notes,
	})
}

// ReassignStudySession links the session to another exam, or to none when examID is not valid.
func (svc *Service) ReassignStudySession(ctx context.Context, id int, examID null.Int) (StudySession, error) {
	sess, err := svc.repo.GetStudySession(ctx, id)
	if err != nil {
		return StudySession{}, err
	}
	if err = svc.checkSessionExam(ctx, sess.SubjectID, examID); err != nil {
		return StudySession{}, err
	}
	sess.ExamScheduleID = examID
	return svc.repo.UpdateStudySession(ctx, sess)
}

func (svc *Service) DeleteStudySession(ctx context.Context, id int) error {
	return svc.repo.DeleteStudySession(ctx, id)
}

// checkSessionExam makes sure an exam-prep session studies the exam's subject.
// An unknown exam is left to the store, which reports it as an integrity violation.
func (svc *Service) checkSessionExam(ctx context.Context, subjectID int, examID null.Int) error {
	if !examID.Valid {
		return nil
	}
	exam, err := svc.repo.GetExamSchedule(ctx, examID.Int)
	if err != nil {
		if core.IsNotFound(err) {
			return nil
		}
		return err
	}
	if exam.SubjectID != subjectID {
		return core.NewValidationError(errExamOfOtherSubject, core.FieldError{
			Field: "exam_schedule_id",
			Error: errExamOfOtherSubject.Error(),
		})
	}
	return nil
}

func (ns NewSchedule) clean() NewSchedule {
	ns.StartTime = core.CleanString(ns.StartTime)
	ns.EndTime = core.CleanString(ns.EndTime)
	return ns
}

func (ne NewExamSchedule) clean() NewExamSchedule {
	ne.StartTime = core.CleanString(ne.StartTime)
	ne.EndTime = core.CleanString(ne.EndTime)
	if !ne.ExamDate.IsZero() {
		ne.ExamDate = truncateDate(ne.ExamDate)
	}
	return ne
}

func (ns NewStudySession) clean() NewStudySession {
	ns.StartTime = core.CleanString(ns.StartTime)
	ns.EndTime = core.CleanString(ns.EndTime)
	ns.Notes = core.CleanString(ns.Notes)
	if !ns.SessionDate.IsZero() {
		ns.SessionDate = truncateDate(ns.SessionDate)
	}
	return ns
}

// truncateDate keeps the calendar date of t, at midnight UTC.
func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
