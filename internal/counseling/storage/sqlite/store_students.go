package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ghchoi48/homeroom/internal/counseling"
	"github.com/ghchoi48/homeroom/internal/counseling/storage"
)

const studentColumns = `id, name, phone, gender, birth_date,
	guardian_phone1, guardian_phone2, memo, created_at, updated_at`

func (s *Store) AddStudent(ctx context.Context, student counseling.Student) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := student.Validate(); err != nil {
		return err
	}

	now := toStamp(s.now())
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO students (
	name, phone, gender, birth_date,
	guardian_phone1, guardian_phone2, memo,
	created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		student.Name,
		student.Phone,
		student.Gender,
		student.BirthDate,
		student.GuardianPhone1,
		student.GuardianPhone2,
		student.Memo,
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicateName
		}
		return fmt.Errorf("add student: %w", err)
	}
	return nil
}

func (s *Store) UpdateStudent(ctx context.Context, id int64, student counseling.Student) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := student.Validate(); err != nil {
		return err
	}

	// Reject a rename that collides with a different row before touching
	// anything, so a failed update leaves the student unchanged.
	var holder int64
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT id FROM students WHERE name = ? AND id <> ?",
		student.Name, id,
	).Scan(&holder)
	switch {
	case err == nil:
		return storage.ErrDuplicateName
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("check student name: %w", err)
	}

	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE students SET
	name = ?,
	phone = ?,
	gender = ?,
	birth_date = ?,
	guardian_phone1 = ?,
	guardian_phone2 = ?,
	memo = ?,
	updated_at = ?
WHERE id = ?`,
		student.Name,
		student.Phone,
		student.Gender,
		student.BirthDate,
		student.GuardianPhone1,
		student.GuardianPhone2,
		student.Memo,
		toStamp(s.now()),
		id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicateName
		}
		return fmt.Errorf("update student: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update student rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteStudent(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	result, err := s.sqlDB.ExecContext(ctx, "DELETE FROM students WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete student rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) GetStudent(ctx context.Context, name string) (counseling.Student, error) {
	if err := ctx.Err(); err != nil {
		return counseling.Student{}, err
	}
	if s == nil || s.sqlDB == nil {
		return counseling.Student{}, fmt.Errorf("storage is not configured")
	}
	row := s.sqlDB.QueryRowContext(ctx,
		"SELECT "+studentColumns+" FROM students WHERE name = ?", name)
	return scanStudent(row)
}

func (s *Store) GetStudentByID(ctx context.Context, id int64) (counseling.Student, error) {
	if err := ctx.Err(); err != nil {
		return counseling.Student{}, err
	}
	if s == nil || s.sqlDB == nil {
		return counseling.Student{}, fmt.Errorf("storage is not configured")
	}
	row := s.sqlDB.QueryRowContext(ctx,
		"SELECT "+studentColumns+" FROM students WHERE id = ?", id)
	return scanStudent(row)
}

func (s *Store) ListStudentNames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, "SELECT name FROM students ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list student names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan student name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate student names: %w", err)
	}
	return names, nil
}

func (s *Store) ListStudents(ctx context.Context) ([]counseling.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT "+studentColumns+" FROM students ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []counseling.Student
	for rows.Next() {
		student, err := scanStudentRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}
	return students, nil
}

func (s *Store) ImportStudents(ctx context.Context, students []counseling.Student) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	for _, student := range students {
		if err := student.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start import transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := toStamp(s.now())
	for _, student := range students {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO students (
	name, phone, gender, birth_date,
	guardian_phone1, guardian_phone2, memo,
	created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			student.Name,
			student.Phone,
			student.Gender,
			student.BirthDate,
			student.GuardianPhone1,
			student.GuardianPhone2,
			student.Memo,
			now,
			now,
		); err != nil {
			if isUniqueViolation(err) {
				return storage.ErrDuplicateName
			}
			return fmt.Errorf("import student %q: %w", student.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

type rowScanner func(dest ...any) error

func scanStudent(row *sql.Row) (counseling.Student, error) {
	student, err := scanStudentRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return counseling.Student{}, storage.ErrNotFound
		}
		return counseling.Student{}, fmt.Errorf("get student: %w", err)
	}
	return student, nil
}

func scanStudentRow(scan rowScanner) (counseling.Student, error) {
	var student counseling.Student
	var createdAt, updatedAt string
	if err := scan(
		&student.ID,
		&student.Name,
		&student.Phone,
		&student.Gender,
		&student.BirthDate,
		&student.GuardianPhone1,
		&student.GuardianPhone2,
		&student.Memo,
		&createdAt,
		&updatedAt,
	); err != nil {
		return counseling.Student{}, err
	}
	student.CreatedAt = fromStamp(createdAt)
	student.UpdatedAt = fromStamp(updatedAt)
	return student, nil
}
