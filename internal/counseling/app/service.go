// Package app wires the counseling store, CSV serialization, and settings
// into the operations the interactive layer calls.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ghchoi48/homeroom/internal/counseling"
	"github.com/ghchoi48/homeroom/internal/counseling/csvio"
	"github.com/ghchoi48/homeroom/internal/counseling/storage"
	apperrors "github.com/ghchoi48/homeroom/internal/platform/errors"
)

// Storage is the full persistence surface the service needs.
type Storage interface {
	storage.StudentStore
	storage.RecordStore
	storage.ExportStore
	storage.ImportStore
}

// SchoolYearSource supplies the school year stamped into NEIS exports.
type SchoolYearSource interface {
	SchoolYear() int
}

// Service exposes the application's data operations.
type Service struct {
	store    Storage
	settings SchoolYearSource
}

// New creates a service over the given store and settings.
func New(store Storage, settings SchoolYearSource) *Service {
	return &Service{store: store, settings: settings}
}

// Students.

func (s *Service) AddStudent(ctx context.Context, student counseling.Student) error {
	return s.store.AddStudent(ctx, student)
}

func (s *Service) UpdateStudent(ctx context.Context, id int64, student counseling.Student) error {
	return s.store.UpdateStudent(ctx, id, student)
}

func (s *Service) DeleteStudent(ctx context.Context, name string) error {
	return s.store.DeleteStudent(ctx, name)
}

func (s *Service) Student(ctx context.Context, name string) (counseling.Student, error) {
	return s.store.GetStudent(ctx, name)
}

func (s *Service) StudentByID(ctx context.Context, id int64) (counseling.Student, error) {
	return s.store.GetStudentByID(ctx, id)
}

func (s *Service) StudentNames(ctx context.Context) ([]string, error) {
	return s.store.ListStudentNames(ctx)
}

// Counseling records.

func (s *Service) AddRecord(ctx context.Context, studentName string, r counseling.Record) error {
	return s.store.AddRecord(ctx, studentName, r)
}

func (s *Service) Records(ctx context.Context, studentName string) ([]counseling.Record, error) {
	return s.store.ListRecords(ctx, studentName)
}

func (s *Service) Record(ctx context.Context, id int64) (counseling.Record, error) {
	return s.store.GetRecord(ctx, id)
}

func (s *Service) UpdateRecord(ctx context.Context, id int64, r counseling.Record) error {
	return s.store.UpdateRecord(ctx, id, r)
}

func (s *Service) DeleteRecord(ctx context.Context, id int64) error {
	return s.store.DeleteRecord(ctx, id)
}

// CSV export and import.

// ExportAll writes the full two-section export to path.
func (s *Service) ExportAll(ctx context.Context, path string) error {
	students, err := s.store.ListStudents(ctx)
	if err != nil {
		return err
	}
	records, err := s.store.ListJoinedRecords(ctx)
	if err != nil {
		return err
	}
	return writeFile(path, func(f *os.File) error {
		return csvio.WriteAll(f, students, records)
	})
}

// ExportStudents writes the students-only export to path.
func (s *Service) ExportStudents(ctx context.Context, path string) error {
	students, err := s.store.ListStudents(ctx)
	if err != nil {
		return err
	}
	return writeFile(path, func(f *os.File) error {
		return csvio.WriteStudents(f, students)
	})
}

// ExportRecords writes the records-only export to path.
func (s *Service) ExportRecords(ctx context.Context, path string) error {
	records, err := s.store.ListJoinedRecords(ctx)
	if err != nil {
		return err
	}
	return writeFile(path, func(f *os.File) error {
		return csvio.WriteRecords(f, records)
	})
}

// ExportStudentsForm writes the blank students template to path.
func (s *Service) ExportStudentsForm(_ context.Context, path string) error {
	return writeFile(path, func(f *os.File) error {
		return csvio.WriteStudentsForm(f)
	})
}

// ExportNEIS writes records in the NEIS registration template, restricted to
// counsel days in the inclusive [start, end] range.
func (s *Service) ExportNEIS(ctx context.Context, path, start, end string) error {
	for _, day := range []string{start, end} {
		if _, err := time.Parse(counseling.BirthDateLayout, day); err != nil {
			return apperrors.Wrap(apperrors.CodeInvalidArgument, "date range must be YYYY-MM-DD", err)
		}
	}
	records, err := s.store.ListJoinedRecordsInRange(ctx, start, end)
	if err != nil {
		return err
	}
	year := s.settings.SchoolYear()
	return writeFile(path, func(f *os.File) error {
		return csvio.WriteNEIS(f, records, year)
	})
}

// ImportStudents reads a students-shaped CSV and inserts every row, or none.
// Duplicate names, in the file or against existing students, reject the whole
// import.
func (s *Service) ImportStudents(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeFileIO, "read import file", err)
	}
	students, err := csvio.ReadStudents(data)
	if err != nil {
		return err
	}
	if len(students) == 0 {
		return apperrors.New(apperrors.CodeFileIO, "import file contains no student rows")
	}
	if err := s.store.ImportStudents(ctx, students); err != nil {
		if errors.Is(err, storage.ErrDuplicateName) {
			return apperrors.Wrap(apperrors.CodeImportConflict, "import collides with an existing student", err)
		}
		return err
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeFileIO, "create export file", err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return apperrors.Wrap(apperrors.CodeFileIO, "write export file", err)
	}
	if err := f.Close(); err != nil {
		return apperrors.Wrap(apperrors.CodeFileIO, fmt.Sprintf("close export file %s", path), err)
	}
	return nil
}
