package study

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLiteratureQuestionGenerator_Generate(t *testing.T) {
	file := SubjectFile{ID: 1, FileName: "algebra.pdf"}
	literature := []RelatedLiterature{
		{Title: "Elements of Algebra", Authors: "Leonhard Euler", Source: "Project Gutenberg"},
		{Title: "Untitled notes"},
		{Title: "Abstract Algebra", Source: "Wiley"},
	}

	tests := []struct {
		name        string
		n           int
		wantAnswers []string
	}{
		{name: "authors first", n: 1, wantAnswers: []string{"Leonhard Euler"}},
		{name: "then sources", n: 2, wantAnswers: []string{"Leonhard Euler", "Project Gutenberg"}},
		{name: "everything there is", n: 10, wantAnswers: []string{"Leonhard Euler", "Project Gutenberg", "Wiley"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questions, err := LiteratureQuestionGenerator{}.Generate(context.Background(), file, literature, tt.n)
			assert.NoError(t, err)
			answers := make([]string, 0, len(questions))
			for _, q := range questions {
				assert.NotEmpty(t, q.QuestionText)
				answers = append(answers, q.CorrectAnswer)
			}
			assert.Equal(t, tt.wantAnswers, answers)
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LiteratureQuestionGenerator{}.Generate(ctx, file, literature, 3)
	assert.Equal(t, context.Canceled, err)
}
