package study

import (
	"regexp"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/studydesk/core"
)

var (
	// custom validation tags & texts
	clockTag   = "clock"
	clockText  = "{0} must be a time of day formatted as HH:MM"
	clockRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

	// literature titles at least this similar to an existing one are considered duplicates
	maxTitleSimilarity = 0.9
)

// InitValidators registers the study validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(clockTag, clockValidation)
	core.RegisterCustomTranslation(validate, translator, clockTag, clockText)
}

// clockValidation only allows 24h times of day, zero-padded.
func clockValidation(fl validator.FieldLevel) bool {
	return clockRegex.MatchString(fl.Field().String())
}

// titleSimilarity compares two titles, ignoring case and surrounding whitespace.
func titleSimilarity(a, b string) float64 {
	a = core.NormalizeAnswer(a)
	b = core.NormalizeAnswer(b)
	if a == "" || b == "" {
		return 0
	}
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}

// validateLiteratureTitle rejects titles too similar to one already attached to the file.
func validateLiteratureTitle(title string, existing []RelatedLiterature) error {
	for _, lit := range existing {
		if titleSimilarity(title, lit.Title) >= maxTitleSimilarity {
			return core.NewValidationError(errLiteratureExists, core.FieldError{
				Field: "title",
				Error: errLiteratureExists.Error(),
			})
		}
	}
	return nil
}
