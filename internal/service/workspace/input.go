package workspace

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/rokartur/xcstrings-editor-sub000/internal/domain"
)

var defaultCollation = language.Und

const maxFileNameLen = 255

// ImportInput holds the parameters for importing a catalog.
type ImportInput struct {
	FileName    string
	Content     string
	Source      *domain.CatalogSource
	ProjectFile *domain.ProjectFile
}

// Validate checks all fields and collects all errors.
func (i *ImportInput) Validate() error {
	var errs []domain.FieldError

	name := strings.TrimSpace(i.FileName)
	switch {
	case name == "":
		errs = append(errs, domain.FieldError{Field: "file_name", Message: "required"})
	case len(name) > maxFileNameLen:
		errs = append(errs, domain.FieldError{Field: "file_name", Message: "too long (max 255)"})
	case strings.ContainsAny(name, `/\`):
		errs = append(errs, domain.FieldError{Field: "file_name", Message: "must not contain path separators"})
	}

	if strings.TrimSpace(i.Content) == "" {
		errs = append(errs, domain.FieldError{Field: "content", Message: "required"})
	}

	if i.Source != nil && !i.Source.Kind.IsValid() {
		errs = append(errs, domain.FieldError{Field: "source.kind", Message: "must be local or remote"})
	}

	if i.ProjectFile != nil && strings.TrimSpace(i.ProjectFile.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "project_file.name", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
