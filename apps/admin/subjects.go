package main

import (
	"context"
	"fmt"
	"io"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/studydesk/core"
	"github.com/trezcool/studydesk/core/study"
)

func (cli *commandLine) subjectsCmd() command {
	fs := cli.newFlagSet("subjects")
	ordering := fs.String("ordering", "id", "Comma-separated fields among id, subject_name, teacher; prefix with - for descending order.")
	return command{flags: fs, run: func() error {
		subjects, err := cli.svc.QuerySubjects(context.Background(), core.ParseOrdering(*ordering))
		if err != nil {
			return err
		}
		return cli.table("ID\tNAME\tTEACHER\tDESCRIPTION", func(w io.Writer) {
			for _, subj := range subjects {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", subj.ID, subj.SubjectName, subj.Teacher, subj.SubjectDescription)
			}
		})
	}}
}

func (cli *commandLine) addSubjectCmd() command {
	fs := cli.newFlagSet("addsubject")
	name := fs.String("name", "", "The subject's name.")
	desc := fs.String("description", "", "What the subject covers.")
	teacher := fs.String("teacher", "", "Who teaches it.")
	return command{flags: fs, run: func() error {
		if err := required(fs, *name); err != nil {
			return err
		}
		subj, err := cli.svc.CreateSubject(context.Background(), study.NewSubject{
			SubjectName:        *name,
			SubjectDescription: *desc,
			Teacher:            *teacher,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "subject %d created\n", subj.ID)
		return nil
	}}
}

func (cli *commandLine) deleteSubjectCmd() command {
	fs := cli.newFlagSet("deletesubject")
	id := fs.Int("id", 0, "The subject's ID.")
	yes := fs.Bool("yes", false, "Do not ask for confirmation.")
	return command{flags: fs, run: func() error {
		if err := required(fs, *id); err != nil {
			return err
		}
		ctx := context.Background()
		subj, err := cli.svc.GetSubject(ctx, *id)
		if err != nil {
			return err
		}
		prompt := fmt.Sprintf("Delete %q along with its schedules, exams, sessions and files?", subj.SubjectName)
		if err = cli.confirm(*yes, prompt); err != nil {
			return err
		}
		if err = cli.svc.DeleteSubject(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "subject %d deleted\n", *id)
		return nil
	}}
}

func (cli *commandLine) examsCmd() command {
	fs := cli.newFlagSet("exams")
	subjectID := fs.Int("subject", 0, "The subject's ID.")
	return command{flags: fs, run: func() error {
		if err := required(fs, *subjectID); err != nil {
			return err
		}
		exams, err := cli.svc.QueryExamSchedules(context.Background(), *subjectID)
		if err != nil {
			return err
		}
		return cli.table("ID\tDATE\tFROM\tTO\tPRIORITY", func(w io.Writer) {
			for _, exam := range exams {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", exam.ID, exam.ExamDate.Format("2006-01-02"), exam.StartTime, exam.EndTime, exam.Priority)
			}
		})
	}}
}

func (cli *commandLine) deleteExamCmd() command {
	fs := cli.newFlagSet("deleteexam")
	id := fs.Int("id", 0, "The exam schedule's ID.")
	yes := fs.Bool("yes", false, "Do not ask for confirmation.")
	return command{flags: fs, run: func() error {
		if err := required(fs, *id); err != nil {
			return err
		}
		ctx := context.Background()
		exam, err := cli.svc.GetExamSchedule(ctx, *id)
		if err != nil {
			return err
		}
		if err = cli.confirm(*yes, fmt.Sprintf("Delete the exam of %s?", exam.ExamDate.Format("2006-01-02"))); err != nil {
			return err
		}
		if err = cli.svc.DeleteExamSchedule(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "exam schedule %d deleted\n", *id)
		return nil
	}}
}

func (cli *commandLine) sessionsCmd() command {
	fs := cli.newFlagSet("sessions")
	subjectID := fs.Int("subject", 0, "Only the sessions of this subject.")
	examID := fs.Int("exam", 0, "Only the sessions preparing this exam.")
	return command{flags: fs, run: func() error {
		sessions, err := cli.svc.QueryStudySessions(context.Background(), study.StudySessionFilter{
			SubjectID:      *subjectID,
			ExamScheduleID: *examID,
		})
		if err != nil {
			return err
		}
		return cli.table("ID\tSUBJECT\tEXAM\tDATE\tFROM\tTO\tNOTES", func(w io.Writer) {
			for _, sess := range sessions {
				exam := "-"
				if sess.ExamScheduleID.Valid {
					exam = fmt.Sprint(sess.ExamScheduleID.Int)
				}
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
					sess.ID, sess.SubjectID, exam, sess.SessionDate.Format("2006-01-02"), sess.StartTime, sess.EndTime, sess.Notes)
			}
		})
	}}
}

func (cli *commandLine) reassignSessionCmd() command {
	fs := cli.newFlagSet("reassignsession")
	id := fs.Int("id", 0, "The study session's ID.")
	examID := fs.Int("exam", 0, "The exam schedule to prepare; 0 makes it a general session.")
	return command{flags: fs, run: func() error {
		if err := required(fs, *id); err != nil {
			return err
		}
		sess, err := cli.svc.ReassignStudySession(context.Background(), *id, null.NewInt(*examID, *examID > 0))
		if err != nil {
			return err
		}
		if sess.ExamScheduleID.Valid {
			fmt.Fprintf(cli.out, "study session %d now prepares exam schedule %d\n", sess.ID, sess.ExamScheduleID.Int)
		} else {
			fmt.Fprintf(cli.out, "study session %d is now a general session\n", sess.ID)
		}
		return nil
	}}
}
