// Package csvio serializes counseling data to and from CSV.
//
// Exports are pure serialization over rows the storage layer has already
// ordered. Every export is written as UTF-8 with a byte order mark so
// spreadsheet tools render the Korean headers correctly.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ghchoi48/homeroom/internal/counseling"
	"github.com/ghchoi48/homeroom/internal/counseling/storage"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var studentHeader = []string{
	"이름", "연락처", "성별", "생년월일",
	"보호자연락처1", "보호자연락처2", "메모", "생성일시", "수정일시",
}

var recordHeader = []string{
	"학생이름", "상담일시", "상담대상", "상담방법", "상담분류", "상담내용", "생성일시",
}

const (
	studentSectionMarker = "=== 학생 정보 ==="
	recordSectionMarker  = "=== 상담 기록 ==="
)

// stampLayout formats created/updated timestamps in export rows.
const stampLayout = "2006-01-02 15:04:05"

func newBOMWriter(w io.Writer) (*csv.Writer, error) {
	if _, err := w.Write(utf8BOM); err != nil {
		return nil, fmt.Errorf("write byte order mark: %w", err)
	}
	return csv.NewWriter(w), nil
}

func studentRow(s counseling.Student) []string {
	return []string{
		s.Name,
		s.Phone,
		s.Gender,
		s.BirthDate,
		s.GuardianPhone1,
		s.GuardianPhone2,
		s.Memo,
		s.CreatedAt.Format(stampLayout),
		s.UpdatedAt.Format(stampLayout),
	}
}

func recordRow(r storage.JoinedRecord) []string {
	return []string{
		r.StudentName,
		r.Record.CounselDate,
		string(r.Record.Target),
		string(r.Record.Method),
		string(r.Record.Category),
		r.Record.Content,
		r.Record.CreatedAt.Format(stampLayout),
	}
}

// WriteAll writes the labeled student and record sections into one file.
func WriteAll(w io.Writer, students []counseling.Student, records []storage.JoinedRecord) error {
	cw, err := newBOMWriter(w)
	if err != nil {
		return err
	}

	rows := [][]string{{studentSectionMarker}, studentHeader}
	for _, s := range students {
		rows = append(rows, studentRow(s))
	}
	rows = append(rows, []string{}, []string{recordSectionMarker}, recordHeader)
	for _, r := range records {
		rows = append(rows, recordRow(r))
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteStudents writes the student block only.
func WriteStudents(w io.Writer, students []counseling.Student) error {
	cw, err := newBOMWriter(w)
	if err != nil {
		return err
	}
	rows := [][]string{studentHeader}
	for _, s := range students {
		rows = append(rows, studentRow(s))
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteRecords writes the counseling record block only.
func WriteRecords(w io.Writer, records []storage.JoinedRecord) error {
	cw, err := newBOMWriter(w)
	if err != nil {
		return err
	}
	rows := [][]string{recordHeader}
	for _, r := range records {
		rows = append(rows, recordRow(r))
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteStudentsForm writes just the students header row, handing operators a
// fillable starting point for bulk registration.
func WriteStudentsForm(w io.Writer) error {
	cw, err := newBOMWriter(w)
	if err != nil {
		return err
	}
	if err := cw.WriteAll([][]string{studentHeader}); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
