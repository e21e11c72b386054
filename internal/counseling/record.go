package counseling

import (
	"strings"
	"time"

	apperrors "github.com/ghchoi48/homeroom/internal/platform/errors"
)

// CounselDateLayout is the minute-precision form counsel dates are entered in.
const CounselDateLayout = "2006-01-02 15:04"

// Target enumerates who was counseled.
type Target string

// Method enumerates the counseling channel.
type Method string

// Category enumerates the subject classification of a session.
type Category string

const (
	TargetStudent  Target = "student"
	TargetGuardian Target = "guardian"
	TargetTeacher  Target = "teacher"
	TargetOther    Target = "other"
)

const (
	MethodInPerson Method = "in-person"
	MethodPhone    Method = "phone"
	MethodCyber    Method = "cyber"
)

const (
	CategoryAcademic            Category = "academic"
	CategoryCareer              Category = "career"
	CategoryPersonality         Category = "personality"
	CategoryRelationships       Category = "relationships"
	CategoryFamily              Category = "family"
	CategoryDelinquency         Category = "delinquency"
	CategoryBullyingPerpetrator Category = "bullying-perpetrator"
	CategoryBullyingVictim      Category = "bullying-victim"
	CategorySelfHarm            Category = "self-harm"
	CategoryMentalHealth        Category = "mental-health"
	CategoryDeviceOveruse       Category = "device-overuse"
	CategoryInformation         Category = "information"
	CategoryOther               Category = "other"
)

var validTargets = map[Target]bool{
	TargetStudent:  true,
	TargetGuardian: true,
	TargetTeacher:  true,
	TargetOther:    true,
}

var validMethods = map[Method]bool{
	MethodInPerson: true,
	MethodPhone:    true,
	MethodCyber:    true,
}

var validCategories = map[Category]bool{
	CategoryAcademic:            true,
	CategoryCareer:              true,
	CategoryPersonality:         true,
	CategoryRelationships:       true,
	CategoryFamily:              true,
	CategoryDelinquency:         true,
	CategoryBullyingPerpetrator: true,
	CategoryBullyingVictim:      true,
	CategorySelfHarm:            true,
	CategoryMentalHealth:        true,
	CategoryDeviceOveruse:       true,
	CategoryInformation:         true,
	CategoryOther:               true,
}

// Valid reports whether the target is a known enumeration value.
func (t Target) Valid() bool { return validTargets[t] }

// Valid reports whether the method is a known enumeration value.
func (m Method) Valid() bool { return validMethods[m] }

// Valid reports whether the category is a known enumeration value. The empty
// string is not one: rows written before the category column existed read
// back empty, but reads do not validate, so writes always carry a category.
func (c Category) Valid() bool { return validCategories[c] }

// Record is one counseling session note owned by exactly one student.
type Record struct {
	ID          int64
	StudentID   int64
	CounselDate string // YYYY-MM-DD HH:mm
	Target      Target
	Method      Method
	Category    Category
	Content     string
	CreatedAt   time.Time
}

// Validate checks the caller-supplied fields before they reach storage.
func (r Record) Validate() error {
	if _, err := time.Parse(CounselDateLayout, r.CounselDate); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "counsel date must be YYYY-MM-DD HH:mm", err)
	}
	if !r.Target.Valid() {
		return apperrors.New(apperrors.CodeInvalidArgument, "unknown counseling target")
	}
	if !r.Method.Valid() {
		return apperrors.New(apperrors.CodeInvalidArgument, "unknown counseling method")
	}
	if !r.Category.Valid() {
		return apperrors.New(apperrors.CodeInvalidArgument, "unknown counseling category")
	}
	if strings.TrimSpace(r.Content) == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "counseling content is required")
	}
	return nil
}

// CounselDay returns the date part of the counsel date.
func (r Record) CounselDay() string {
	if len(r.CounselDate) < len(BirthDateLayout) {
		return r.CounselDate
	}
	return r.CounselDate[:len(BirthDateLayout)]
}
