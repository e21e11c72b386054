package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ghchoi48/homeroom/internal/counseling"
	"github.com/ghchoi48/homeroom/internal/counseling/storage"
)

func (s *Store) AddRecord(ctx context.Context, studentName string, r counseling.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := r.Validate(); err != nil {
		return err
	}

	var studentID int64
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT id FROM students WHERE name = ?", studentName,
	).Scan(&studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("resolve student name: %w", err)
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO counseling_records (
	student_id, counsel_date, target, method, category, content, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		studentID,
		r.CounselDate,
		string(r.Target),
		string(r.Method),
		string(r.Category),
		r.Content,
		toStamp(s.now()),
	)
	if err != nil {
		return fmt.Errorf("add counseling record: %w", err)
	}
	return nil
}

func (s *Store) ListRecords(ctx context.Context, studentName string) ([]counseling.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT cr.id, cr.student_id, cr.counsel_date, cr.target, cr.method, cr.category, cr.content, cr.created_at
FROM counseling_records cr
JOIN students s ON cr.student_id = s.id
WHERE s.name = ?
ORDER BY cr.counsel_date DESC`, studentName)
	if err != nil {
		return nil, fmt.Errorf("list counseling records: %w", err)
	}
	defer rows.Close()

	var records []counseling.Record
	for rows.Next() {
		record, err := scanRecordRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan counseling record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counseling records: %w", err)
	}
	return records, nil
}

func (s *Store) GetRecord(ctx context.Context, id int64) (counseling.Record, error) {
	if err := ctx.Err(); err != nil {
		return counseling.Record{}, err
	}
	if s == nil || s.sqlDB == nil {
		return counseling.Record{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, student_id, counsel_date, target, method, category, content, created_at
FROM counseling_records WHERE id = ?`, id)
	record, err := scanRecordRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return counseling.Record{}, storage.ErrNotFound
		}
		return counseling.Record{}, fmt.Errorf("get counseling record: %w", err)
	}
	return record, nil
}

func (s *Store) UpdateRecord(ctx context.Context, id int64, r counseling.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := r.Validate(); err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE counseling_records SET
	counsel_date = ?, target = ?, method = ?, category = ?, content = ?
WHERE id = ?`,
		r.CounselDate,
		string(r.Target),
		string(r.Method),
		string(r.Category),
		r.Content,
		id,
	)
	if err != nil {
		return fmt.Errorf("update counseling record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update counseling record rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteRecord(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	result, err := s.sqlDB.ExecContext(ctx, "DELETE FROM counseling_records WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete counseling record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete counseling record rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ListJoinedRecords(ctx context.Context) ([]storage.JoinedRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT s.name, cr.id, cr.student_id, cr.counsel_date, cr.target, cr.method, cr.category, cr.content, cr.created_at
FROM counseling_records cr
JOIN students s ON cr.student_id = s.id
ORDER BY s.name, cr.counsel_date`)
	if err != nil {
		return nil, fmt.Errorf("list joined records: %w", err)
	}
	defer rows.Close()

	return collectJoinedRecords(rows)
}

func (s *Store) ListJoinedRecordsInRange(ctx context.Context, start, end string) ([]storage.JoinedRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT s.name, cr.id, cr.student_id, cr.counsel_date, cr.target, cr.method, cr.category, cr.content, cr.created_at
FROM counseling_records cr
JOIN students s ON cr.student_id = s.id
WHERE substr(cr.counsel_date, 1, 10) BETWEEN ? AND ?
ORDER BY cr.counsel_date`, start, end)
	if err != nil {
		return nil, fmt.Errorf("list records in range: %w", err)
	}
	defer rows.Close()

	return collectJoinedRecords(rows)
}

func collectJoinedRecords(rows *sql.Rows) ([]storage.JoinedRecord, error) {
	var joined []storage.JoinedRecord
	for rows.Next() {
		var entry storage.JoinedRecord
		var target, method, createdAt string
		var category sql.NullString
		if err := rows.Scan(
			&entry.StudentName,
			&entry.Record.ID,
			&entry.Record.StudentID,
			&entry.Record.CounselDate,
			&target,
			&method,
			&category,
			&entry.Record.Content,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan joined record: %w", err)
		}
		entry.Record.Target = counseling.Target(target)
		entry.Record.Method = counseling.Method(method)
		entry.Record.Category = counseling.Category(category.String)
		entry.Record.CreatedAt = fromStamp(createdAt)
		joined = append(joined, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate joined records: %w", err)
	}
	return joined, nil
}

func scanRecordRow(scan rowScanner) (counseling.Record, error) {
	var record counseling.Record
	var target, method, createdAt string
	// Rows written before the category migration carry NULL here.
	var category sql.NullString
	if err := scan(
		&record.ID,
		&record.StudentID,
		&record.CounselDate,
		&target,
		&method,
		&category,
		&record.Content,
		&createdAt,
	); err != nil {
		return counseling.Record{}, err
	}
	record.Target = counseling.Target(target)
	record.Method = counseling.Method(method)
	record.Category = counseling.Category(category.String)
	record.CreatedAt = fromStamp(createdAt)
	return record, nil
}
