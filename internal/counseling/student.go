// Package counseling defines the domain types for student profiles and
// counseling session records.
package counseling

import (
	"strings"
	"time"

	apperrors "github.com/ghchoi48/homeroom/internal/platform/errors"
)

// BirthDateLayout is the storage form for student birth dates.
const BirthDateLayout = "2006-01-02"

// Student is a homeroom student profile.
//
// Name is unique across all students and doubles as the lookup key the
// interactive layer works with; the numeric ID exists so renames and record
// ownership stay stable.
type Student struct {
	ID             int64
	Name           string
	Phone          string
	Gender         string
	BirthDate      string // YYYY-MM-DD, optional
	GuardianPhone1 string
	GuardianPhone2 string
	Memo           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks the fields a caller controls before they reach storage.
func (s Student) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "student name is required")
	}
	if s.BirthDate != "" {
		if _, err := time.Parse(BirthDateLayout, s.BirthDate); err != nil {
			return apperrors.Wrap(apperrors.CodeInvalidArgument, "birth date must be YYYY-MM-DD", err)
		}
	}
	return nil
}
