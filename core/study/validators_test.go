package study

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/studydesk/core"
)

func TestClockValidation(t *testing.T) {
	validate, translator := core.NewValidator()
	InitValidators(validate, translator)

	tests := []struct {
		clock   string
		wantErr bool
	}{
		{clock: "00:00"},
		{clock: "09:30"},
		{clock: "23:59"},
		{clock: "9:30", wantErr: true},
		{clock: "24:00", wantErr: true},
		{clock: "12:60", wantErr: true},
		{clock: "noon", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			err := validate.Struct(NewSchedule{SubjectID: 1, Day: time.Monday, StartTime: tt.clock, EndTime: "23:59"})
			if tt.wantErr {
				if assert.Error(t, err) {
					assert.Equal(t,
						[]core.FieldError{{Field: "start_time", Error: "start_time must be a time of day formatted as HH:MM"}},
						core.FieldErrors(err, translator))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateLiteratureTitle(t *testing.T) {
	existing := []RelatedLiterature{
		{ID: 1, Title: "Introduction to Algebra"},
		{ID: 2, Title: "Calculus Made Easy"},
	}

	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{name: "same title", title: "Introduction to Algebra", wantErr: true},
		{name: "case and spacing", title: "  introduction   TO algebra ", wantErr: true},
		{name: "punctuation", title: "Calculus Made Easy!", wantErr: true},
		{name: "different title", title: "Linear Algebra Done Right"},
		{name: "sequel", title: "Introduction to Algebra, Volume II"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateLiteratureTitle(tt.title, existing)
			if tt.wantErr {
				assert.True(t, core.IsValidation(err), "want validation error, got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
	assert.NoError(t, validateLiteratureTitle("Anything", nil))
}

func TestPriority(t *testing.T) {
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		text, err := p.MarshalText()
		assert.NoError(t, err)

		var parsed Priority
		assert.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, p, parsed)
	}

	p, err := ParsePriority(" high ")
	assert.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("urgent")
	assert.Equal(t, errInvalidPriority, err)
	_, err = Priority(7).MarshalText()
	assert.Equal(t, errInvalidPriority, err)
	assert.Equal(t, "Unknown", Priority(-1).String())
}
