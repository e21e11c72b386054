package csvio

import (
	"encoding/csv"
	"strings"

	"github.com/ghchoi48/homeroom/internal/counseling"
	apperrors "github.com/ghchoi48/homeroom/internal/platform/errors"
)

// studentDataColumns is the name-through-memo span of the students template.
// Exported files carry two trailing timestamp columns; imports ignore them.
const studentDataColumns = 7

// ReadStudents parses a students-shaped CSV into student rows.
//
// The file's text encoding is detected first, so operator-provided files need
// not be UTF-8. A duplicate name inside the file rejects the whole parse: the
// import policy is all-or-nothing, and failing early here spares the caller a
// doomed transaction.
func ReadStudents(data []byte) ([]counseling.Student, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFileIO, "parse csv", err)
	}

	seen := make(map[string]bool)
	var students []counseling.Student
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == studentHeader[0] {
			continue
		}
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		if len(row) < studentDataColumns {
			return nil, apperrors.New(apperrors.CodeFileIO, "row has too few columns for the students template")
		}

		student := counseling.Student{
			Name:           strings.TrimSpace(row[0]),
			Phone:          row[1],
			Gender:         row[2],
			BirthDate:      row[3],
			GuardianPhone1: row[4],
			GuardianPhone2: row[5],
			Memo:           row[6],
		}
		if err := student.Validate(); err != nil {
			return nil, err
		}
		if seen[student.Name] {
			return nil, apperrors.New(apperrors.CodeImportConflict, "duplicate student name in file: "+student.Name)
		}
		seen[student.Name] = true
		students = append(students, student)
	}
	return students, nil
}
