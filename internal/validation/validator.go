package validation

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"mcq-portal/internal/domain"
)

// Rules bounds what the controller accepts before contacting the MCQ service.
type Rules struct {
	AllowedExtensions []string
	MaxUploadBytes    int64
	MaxQuestions      int
}

// DefaultRules mirrors what the MCQ service itself accepts.
func DefaultRules() Rules {
	return Rules{
		AllowedExtensions: []string{"pdf", "txt", "docx"},
		MaxUploadBytes:    16 << 20,
		MaxQuestions:      20,
	}
}

// Validator provides request validation functionality
type Validator struct {
	allowed      map[string]struct{}
	maxBytes     int64
	maxQuestions int
}

func NewValidator(rules Rules) *Validator {
	allowed := make(map[string]struct{}, len(rules.AllowedExtensions))
	for _, ext := range rules.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &Validator{allowed: allowed, maxBytes: rules.MaxUploadBytes, maxQuestions: rules.MaxQuestions}
}

// MaxQuestions is the largest accepted question count.
func (v *Validator) MaxQuestions() int {
	return v.maxQuestions
}

// ValidateFileSelection rejects an absent, empty, oversized or unsupported file.
func (v *Validator) ValidateFileSelection(file *domain.FileSelection) domain.ValidationErrors {
	if file == nil || file.Content == nil || strings.TrimSpace(file.Name) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("file", "Please select a file!")}
	}

	var errors domain.ValidationErrors
	if file.Size <= 0 {
		errors = append(errors, domain.NewMissingFieldError("file", "The selected file is empty"))
	} else if v.maxBytes > 0 && file.Size > v.maxBytes {
		errors = append(errors, domain.ValidationError{
			Field:   "file",
			Code:    domain.CodeOutOfRange,
			Message: fmt.Sprintf("File exceeds the %d byte limit", v.maxBytes),
			Value:   file.Size,
		})
	}

	if len(v.allowed) > 0 {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Name), "."))
		if _, ok := v.allowed[ext]; !ok {
			errors = append(errors, domain.NewInvalidFormatError("file", file.Name, "File type not allowed"))
		}
	}
	return errors
}

// ParseNumQuestions converts the raw question-count field. Non-numeric,
// non-positive and over-limit values are rejected.
func (v *Validator) ParseNumQuestions(raw string) (int, domain.ValidationErrors) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, domain.ValidationErrors{domain.NewMissingFieldError("num_questions", "Please enter the number of questions")}
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, domain.ValidationErrors{domain.NewInvalidFormatError("num_questions", raw, "num_questions must be a whole number")}
	}
	if n <= 0 || (v.maxQuestions > 0 && n > v.maxQuestions) {
		return 0, domain.ValidationErrors{domain.NewOutOfRangeError("num_questions", n, 1, int64(v.maxQuestions))}
	}
	return n, nil
}
