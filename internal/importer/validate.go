package importer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alexanderramin/plangraph/internal/calendar"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
	// Report json field names so errors match the import file.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// ValidateSnapshot checks the snapshot for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateSnapshot(s *Snapshot) []error {
	if s == nil {
		return []error{errors.New("snapshot cannot be nil")}
	}
	var errs []error

	if err := validate.Struct(s); err != nil {
		errs = append(errs, formatValidationError("snapshot", err))
	}

	ids := make(map[string]bool)
	for i := range s.Issues {
		errs = append(errs, validateIssue(i, &s.Issues[i], ids)...)
	}
	for i := range s.Relations {
		errs = append(errs, validateRelation(i, &s.Relations[i])...)
	}

	return errs
}

func validateIssue(idx int, is *IssueImport, ids map[string]bool) []error {
	prefix := fmt.Sprintf("issues[%d]", idx)
	var errs []error

	if err := validate.Struct(is); err != nil {
		errs = append(errs, formatValidationError(prefix, err))
	}
	if is.ID != "" {
		if ids[is.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, is.ID))
		}
		ids[is.ID] = true
		if is.ParentID != nil && *is.ParentID == is.ID {
			errs = append(errs, fmt.Errorf("%s.parent_id: issue cannot be its own parent", prefix))
		}
	}

	start, err := calendar.ParseOptional(is.StartDate)
	if err != nil {
		errs = append(errs, fmt.Errorf("%s.start_date: %w", prefix, err))
	}
	due, err := calendar.ParseOptional(is.DueDate)
	if err != nil {
		errs = append(errs, fmt.Errorf("%s.due_date: %w", prefix, err))
	}
	if !is.Milestone && start != nil && due != nil && !due.After(*start) {
		errs = append(errs, fmt.Errorf("%s.due_date %q must be after start_date %q",
			prefix, *is.DueDate, *is.StartDate))
	}
	if is.Milestone && is.Leaf != nil && !*is.Leaf {
		errs = append(errs, fmt.Errorf("%s: a milestone cannot be a container", prefix))
	}

	return errs
}

func validateRelation(idx int, r *RelationImport) []error {
	prefix := fmt.Sprintf("relations[%d]", idx)
	var errs []error

	if err := validate.Struct(r); err != nil {
		errs = append(errs, formatValidationError(prefix, err))
	}
	if r.From != "" && r.From == r.To {
		errs = append(errs, fmt.Errorf("%s: relation cannot link an issue to itself", prefix))
	}
	if r.Delay != nil && r.Type != "precedes" {
		errs = append(errs, fmt.Errorf("%s.delay: only precedes relations carry a delay", prefix))
	}

	return errs
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(prefix string, err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return fmt.Errorf("%s: %w", prefix, err)
	}

	// Report the first failing field of the struct
	e := validationErrs[0]
	field := e.Field()
	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s.%s: field is required", prefix, field)
	case "min":
		return fmt.Errorf("%s.%s: must be at least %s", prefix, field, e.Param())
	case "max":
		return fmt.Errorf("%s.%s: must not exceed %s", prefix, field, e.Param())
	case "oneof":
		return fmt.Errorf("%s.%s: invalid value %q (expected one of: %s)", prefix, field, e.Value(), e.Param())
	default:
		return fmt.Errorf("%s.%s: validation failed (%s)", prefix, field, e.Tag())
	}
}
