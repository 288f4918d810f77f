package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/trezcool/studydesk/core/study"
)

var questionGenerator study.QuestionGenerator = study.LiteratureQuestionGenerator{}

func (cli *commandLine) generateQuizCmd() command {
	fs := cli.newFlagSet("generatequiz")
	fileID := fs.Int("file", 0, "The subject file's ID.")
	title := fs.String("title", "", "The quiz's title.")
	n := fs.Int("n", 10, "How many questions to ask at most.")
	return command{flags: fs, run: func() error {
		if err := required(fs, *fileID, *title); err != nil {
			return err
		}
		quiz, err := cli.svc.GenerateQuiz(context.Background(), study.NewQuiz{
			SubjectFileID: *fileID,
			Title:         *title,
			NumQuestions:  *n,
		}, questionGenerator)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "quiz %d generated\n", quiz.ID)
		return cli.table("#\tQUESTION\tANSWER", func(w io.Writer) {
			for _, q := range quiz.Questions {
				fmt.Fprintf(w, "%d\t%s\t%s\n", q.Position, q.QuestionText, q.CorrectAnswer)
			}
		})
	}}
}

func (cli *commandLine) quizzesCmd() command {
	fs := cli.newFlagSet("quizzes")
	fileID := fs.Int("file", 0, "The subject file's ID.")
	return command{flags: fs, run: func() error {
		if err := required(fs, *fileID); err != nil {
			return err
		}
		quizzes, err := cli.svc.QueryQuizzes(context.Background(), *fileID)
		if err != nil {
			return err
		}
		return cli.table("ID\tTITLE\tCREATED", func(w io.Writer) {
			for _, quiz := range quizzes {
				fmt.Fprintf(w, "%d\t%s\t%s\n", quiz.ID, quiz.Title, quiz.CreatedAt.Format(time.RFC3339))
			}
		})
	}}
}
