package validators

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-time-sync/models"
)

// Field name constants used to restrict validation to a subset of checks.
// A check that does not apply to the validated type is skipped.
const (
	// FieldID requires a server-assigned (positive) id. Not part of the
	// default set, since a created entity arrives with a local id.
	FieldID = "id"

	// FieldReferences requires every reference to carry a server id.
	FieldReferences = "references"

	// FieldName requires a non-empty name of at most [MaxNameLength] runes.
	FieldName = "name"

	// FieldColor requires a project colour in #rrggbb form.
	FieldColor = "color"

	// FieldTimeRange requires a start and a non-negative duration.
	FieldTimeRange = "time_range"

	// FieldEmail requires a plausible email address.
	FieldEmail = "email"

	// FieldFormats requires known display formats in preferences.
	FieldFormats = "formats"
)

// MaxNameLength bounds entity names.
const MaxNameLength = 255

// DefaultFields is what Validate checks when no field is named.
var DefaultFields = []string{FieldReferences, FieldName, FieldColor, FieldTimeRange, FieldEmail, FieldFormats}

var knownFields = append([]string{FieldID}, DefaultFields...)

var (
	colorPattern    = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	durationFormats = []string{"improved", "classic", "decimal"}
)

type EntityValidator struct{}

func NewEntityValidator() Validator {
	return &EntityValidator{}
}

type check func() error

func (v *EntityValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	checks, err := v.checksFor(obj)
	if err != nil {
		return err
	}

	if len(fields) == 0 {
		fields = DefaultFields
	}

	var errs []error
	for _, field := range fields {
		if !slices.Contains(knownFields, field) {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		if c, ok := checks[field]; ok {
			if err = c(); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

func (v *EntityValidator) checksFor(obj any) (map[string]check, error) {
	switch value := obj.(type) {
	case models.Workspace:
		return withName(common(value), value.Name), nil
	case *models.Workspace:
		return v.checksFor(*value)

	case models.Preferences:
		checks := common(value)
		checks[FieldFormats] = func() error { return validateFormats(value) }
		return checks, nil
	case *models.Preferences:
		return v.checksFor(*value)

	case models.User:
		checks := common(value)
		checks[FieldEmail] = func() error { return validateUser(value) }
		return checks, nil
	case *models.User:
		return v.checksFor(*value)

	case models.Client:
		return withName(common(value), value.Name), nil
	case *models.Client:
		return v.checksFor(*value)

	case models.Tag:
		return withName(common(value), value.Name), nil
	case *models.Tag:
		return v.checksFor(*value)

	case models.Project:
		checks := withName(common(value), value.Name)
		checks[FieldColor] = func() error { return validateColor(value.Color) }
		return checks, nil
	case *models.Project:
		return v.checksFor(*value)

	case models.Task:
		return withName(common(value), value.Name), nil
	case *models.Task:
		return v.checksFor(*value)

	case models.TimeEntry:
		checks := common(value)
		checks[FieldTimeRange] = func() error { return validateTimeRange(value) }
		return checks, nil
	case *models.TimeEntry:
		return v.checksFor(*value)

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, obj)
	}
}

type referencing interface {
	Meta() models.SyncMeta
	References() []models.Reference
}

func common(e referencing) map[string]check {
	return map[string]check{
		FieldID: func() error {
			if id := e.Meta().ID; id <= 0 {
				return fmt.Errorf("%w: %d", ErrInvalidID, id)
			}
			return nil
		},
		FieldReferences: func() error {
			for _, ref := range e.References() {
				if ref.ID <= 0 {
					return fmt.Errorf("%w: %s %d", ErrPlaceholderReference, ref.Type, ref.ID)
				}
			}
			return nil
		},
	}
}

func withName(checks map[string]check, name string) map[string]check {
	checks[FieldName] = func() error {
		switch {
		case strings.TrimSpace(name) == "":
			return ErrEmptyName
		case utf8.RuneCountInString(name) > MaxNameLength:
			return ErrNameTooLong
		}
		return nil
	}
	return checks
}

func validateColor(color string) error {
	if color == "" || colorPattern.MatchString(color) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidColor, color)
}

func validateTimeRange(e models.TimeEntry) error {
	if e.Start.IsZero() {
		return ErrMissingStart
	}
	if e.Duration != nil && *e.Duration < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeDuration, *e.Duration)
	}
	return nil
}

func validateUser(u models.User) error {
	if at := strings.IndexByte(u.Email, '@'); at <= 0 || at == len(u.Email)-1 {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, u.Email)
	}
	if u.BeginningOfWeek < 0 || u.BeginningOfWeek > 6 {
		return ErrInvalidWeekday
	}
	return nil
}

func validateFormats(p models.Preferences) error {
	if p.DurationFormat != "" && !slices.Contains(durationFormats, p.DurationFormat) {
		return fmt.Errorf("%w: duration format %q", ErrInvalidFormat, p.DurationFormat)
	}
	return nil
}
