package study

import (
	"context"
	"fmt"
)

// LiteratureQuestionGenerator asks about the literature listed for a file:
// the authors of each title, then where it was published.
type LiteratureQuestionGenerator struct{}

var _ QuestionGenerator = LiteratureQuestionGenerator{}

func (LiteratureQuestionGenerator) Generate(ctx context.Context, file SubjectFile, literature []RelatedLiterature, n int) ([]NewQuizQuestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	questions := make([]NewQuizQuestion, 0, n)
	for _, lit := range literature {
		if len(questions) == n {
			return questions, nil
		}
		if lit.Authors != "" {
			questions = append(questions, NewQuizQuestion{
				QuestionText:  fmt.Sprintf("Who wrote %q, listed for %s?", lit.Title, file.FileName),
				CorrectAnswer: lit.Authors,
			})
		}
	}
	for _, lit := range literature {
		if len(questions) == n {
			break
		}
		if lit.Source != "" {
			questions = append(questions, NewQuizQuestion{
				QuestionText:  fmt.Sprintf("Where can %q be found?", lit.Title),
				CorrectAnswer: lit.Source,
			})
		}
	}
	return questions, nil
}
