// Package storage declares the persistence contracts for counseling data.
package storage

import (
	"context"

	"github.com/ghchoi48/homeroom/internal/counseling"
	"github.com/ghchoi48/homeroom/internal/platform/errors"
)

// ErrNotFound indicates a requested row is missing.
var ErrNotFound = errors.New(errors.CodeNotFound, "record not found")

// ErrDuplicateName indicates a student name uniqueness violation.
var ErrDuplicateName = errors.New(errors.CodeDuplicateName, "student name already exists")

// StudentStore persists student profiles.
type StudentStore interface {
	// AddStudent inserts a new student. Returns ErrDuplicateName when the
	// name is already taken.
	AddStudent(ctx context.Context, s counseling.Student) error
	// UpdateStudent replaces all mutable fields of the row with the given
	// id and bumps its updated timestamp. Renaming to a name held by a
	// different student returns ErrDuplicateName without mutating data;
	// a missing row returns ErrNotFound.
	UpdateStudent(ctx context.Context, id int64, s counseling.Student) error
	// DeleteStudent removes the named student and, by cascade, all of its
	// counseling records. Returns ErrNotFound when no row was removed.
	DeleteStudent(ctx context.Context, name string) error
	GetStudent(ctx context.Context, name string) (counseling.Student, error)
	GetStudentByID(ctx context.Context, id int64) (counseling.Student, error)
	// ListStudentNames returns all student names in lexicographic order.
	ListStudentNames(ctx context.Context) ([]string, error)
}

// RecordStore persists counseling session records.
type RecordStore interface {
	// AddRecord resolves the student name first and returns ErrNotFound,
	// inserting nothing, when the student does not exist.
	AddRecord(ctx context.Context, studentName string, r counseling.Record) error
	// ListRecords returns the student's records ordered by counsel date,
	// most recent first.
	ListRecords(ctx context.Context, studentName string) ([]counseling.Record, error)
	GetRecord(ctx context.Context, id int64) (counseling.Record, error)
	// UpdateRecord replaces every field except id and student_id.
	UpdateRecord(ctx context.Context, id int64, r counseling.Record) error
	DeleteRecord(ctx context.Context, id int64) error
}

// JoinedRecord pairs a counseling record with its owning student's name for
// export shapes that are keyed by name rather than id.
type JoinedRecord struct {
	StudentName string
	Record      counseling.Record
}

// ExportStore provides the ordered read shapes the CSV exports serialize.
type ExportStore interface {
	// ListStudents returns full student rows ordered by name.
	ListStudents(ctx context.Context) ([]counseling.Student, error)
	// ListJoinedRecords returns all records joined to their student name,
	// ordered by student name then counsel date.
	ListJoinedRecords(ctx context.Context) ([]JoinedRecord, error)
	// ListJoinedRecordsInRange returns records whose counsel day falls in
	// the inclusive [start, end] range, ordered by counsel date.
	ListJoinedRecordsInRange(ctx context.Context, start, end string) ([]JoinedRecord, error)
}

// ImportStore stages bulk student inserts.
type ImportStore interface {
	// ImportStudents inserts every student in one transaction. Any name
	// collision rolls the whole batch back with ErrDuplicateName.
	ImportStudents(ctx context.Context, students []counseling.Student) error
}
