package study

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/studydesk/core"
)

// QuestionGenerator writes up to n questions about a subject file.
type QuestionGenerator interface {
	Generate(ctx context.Context, file SubjectFile, literature []RelatedLiterature, n int) ([]NewQuizQuestion, error)
}

// QuizDetail is a quiz along with its questions, in order.
type QuizDetail struct {
	Quiz
	Questions []QuizQuestion `json:"questions"`
}

// GenerateQuiz asks gen for questions about the file and stores the quiz, its questions and
// their reference answers at once.
func (svc *Service) GenerateQuiz(ctx context.Context, nq NewQuiz, gen QuestionGenerator) (QuizDetail, error) {
	nq.Title = core.CleanString(nq.Title)
	if err := svc.validate.Struct(nq); err != nil {
		return QuizDetail{}, err
	}

	file, err := svc.repo.GetSubjectFile(ctx, nq.SubjectFileID)
	if err != nil {
		return QuizDetail{}, err
	}
	literature, err := svc.repo.QueryRelatedLiterature(ctx, file.ID)
	if err != nil {
		return QuizDetail{}, err
	}
	generated, err := gen.Generate(ctx, file, literature, nq.NumQuestions)
	if err != nil {
		return QuizDetail{}, errors.Wrap(err, "generating questions")
	}
	if len(generated) == 0 {
		return QuizDetail{}, core.NewValidationError(errNoQuestions)
	}
	if len(generated) > nq.NumQuestions {
		generated = generated[:nq.NumQuestions]
	}
	for _, q := range generated {
		if err = svc.validate.Struct(q); err != nil {
			return QuizDetail{}, err
		}
	}

	var detail QuizDetail
	err = svc.repo.InTx(ctx, func(repo Repository) error {
		quiz, err := repo.CreateQuiz(ctx, Quiz{
			SubjectFileID: file.ID,
			Title:         nq.Title,
			CreatedAt:     nowFunc().UTC(),
		})
		if err != nil {
			return err
		}
		detail = QuizDetail{Quiz: quiz, Questions: make([]QuizQuestion, 0, len(generated))}

		for i, gq := range generated {
			q, err := repo.CreateQuizQuestion(ctx, QuizQuestion{
				QuizID:        quiz.ID,
				Position:      i + 1,
				QuestionText:  core.CleanString(gq.QuestionText),
				CorrectAnswer: core.CleanString(gq.CorrectAnswer),
			})
			if err != nil {
				return err
			}
			if _, err = repo.CreateQuizAnswer(ctx, QuizAnswer{
				QuizQuestionID: q.ID,
				AnswerText:     q.CorrectAnswer,
				IsCorrect:      true,
			}); err != nil {
				return err
			}
			detail.Questions = append(detail.Questions, q)
		}
		return nil
	})
	if err != nil {
		return QuizDetail{}, err
	}

	svc.logger.Info("quiz generated", map[string]interface{}{
		"quiz_id":         detail.ID,
		"subject_file_id": file.ID,
		"questions":       len(detail.Questions),
	})
	return detail, nil
}

func (svc *Service) GetQuiz(ctx context.Context, id int) (QuizDetail, error) {
	quiz, err := svc.repo.GetQuiz(ctx, id)
	if err != nil {
		return QuizDetail{}, err
	}
	questions, err := svc.repo.QueryQuizQuestions(ctx, id)
	if err != nil {
		return QuizDetail{}, err
	}
	return QuizDetail{Quiz: quiz, Questions: questions}, nil
}

func (svc *Service) QueryQuizzes(ctx context.Context, subjectFileID int) ([]Quiz, error) {
	return svc.repo.QueryQuizzes(ctx, subjectFileID)
}

func (svc *Service) QueryQuizQuestions(ctx context.Context, quizID int) ([]QuizQuestion, error) {
	return svc.repo.QueryQuizQuestions(ctx, quizID)
}

// QueryQuizAnswers returns the reference answer of the question followed by the answers of every
// attempt, in insertion order. Answers are not linked to the attempt that submitted them.
func (svc *Service) QueryQuizAnswers(ctx context.Context, quizQuestionID int) ([]QuizAnswer, error) {
	return svc.repo.QueryQuizAnswers(ctx, quizQuestionID)
}

func (svc *Service) DeleteQuiz(ctx context.Context, id int) error {
	return svc.repo.DeleteQuiz(ctx, id)
}

// SubmitQuizAttempt grades answers (keyed by question ID) and records them with the attempt.
// Unanswered questions count as wrong.
func (svc *Service) SubmitQuizAttempt(ctx context.Context, quizID int, answers map[int]string) (QuizAttempt, error) {
	var attempt QuizAttempt
	err := svc.repo.InTx(ctx, func(repo Repository) error {
		if _, err := repo.GetQuiz(ctx, quizID); err != nil {
			return err
		}
		questions, err := repo.QueryQuizQuestions(ctx, quizID)
		if err != nil {
			return err
		}
		byID := make(map[int]QuizQuestion, len(questions))
		for _, q := range questions {
			byID[q.ID] = q
		}
		for qID := range answers {
			if _, ok := byID[qID]; !ok {
				return core.NewValidationError(errForeignQuestion, core.FieldError{
					Field: fmt.Sprintf("answers[%d]", qID),
					Error: errForeignQuestion.Error(),
				})
			}
		}

		var score int
		for _, q := range questions {
			text, ok := answers[q.ID]
			if !ok {
				continue
			}
			correct := core.NormalizeAnswer(text) == core.NormalizeAnswer(q.CorrectAnswer)
			if correct {
				score++
			}
			if _, err = repo.CreateQuizAnswer(ctx, QuizAnswer{
				QuizQuestionID: q.ID,
				AnswerText:     core.CleanString(text),
				IsCorrect:      correct,
			}); err != nil {
				return err
			}
		}

		attempt, err = repo.CreateQuizAttempt(ctx, QuizAttempt{
			QuizID:         quizID,
			Score:          score,
			TotalQuestions: len(questions),
			AttemptedAt:    nowFunc().UTC(),
		})
		return err
	})
	if err != nil {
		return QuizAttempt{}, err
	}

	svc.logger.Info("quiz attempted", map[string]interface{}{
		"quiz_id":    quizID,
		"attempt_id": attempt.ID,
		"score":      fmt.Sprintf("%d/%d", attempt.Score, attempt.TotalQuestions),
	})
	return attempt, nil
}

func (svc *Service) QueryQuizAttempts(ctx context.Context, quizID int) ([]QuizAttempt, error) {
	return svc.repo.QueryQuizAttempts(ctx, quizID)
}
