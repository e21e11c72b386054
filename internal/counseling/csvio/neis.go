package csvio

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ghchoi48/homeroom/internal/counseling/storage"
)

// neisHeader is the NEIS bulk-registration template. The column order is a
// compatibility contract with the school administration system and must not
// change.
var neisHeader = []string{
	"*상담분류", "*Wee클래스", "*대분류", "*중분류",
	"*상담구분", "*상담인원", "*학년도", "*상담일자",
	"학년", "성별", "*상담제목", "*상담내용",
	"*상담시간(시)", "*상담시간(분)", "*상담사소속", "*상담매체구분",
}

// Template literals NEIS expects on every general-counseling row. Their
// meaning belongs to the external system; they are reproduced verbatim.
const (
	neisClassification = "일반상담"
	neisWeeClass       = ""
	neisMajorCategory  = "상담"
	neisMinorCategory  = "개인상담"
	neisHeadcount      = "1"
	neisCannedContent  = "일반 상담은 상담 내용을 입력하지 않습니다."
	neisDurationHours  = "0"
	neisDurationMins   = "10"
	neisCounselorRole  = "교사"
)

// NEISRow transforms one record into the fixed 16-column NEIS shape. The
// counsel date is reduced to its day and the dashes stripped.
func NEISRow(r storage.JoinedRecord, schoolYear int) []string {
	day := strings.ReplaceAll(r.Record.CounselDay(), "-", "")
	return []string{
		neisClassification,
		neisWeeClass,
		neisMajorCategory,
		neisMinorCategory,
		string(r.Record.Category),
		neisHeadcount,
		strconv.Itoa(schoolYear),
		day,
		"",
		"",
		string(r.Record.Category),
		neisCannedContent,
		neisDurationHours,
		neisDurationMins,
		neisCounselorRole,
		string(r.Record.Method),
	}
}

// WriteNEIS writes records in the NEIS bulk-registration template.
func WriteNEIS(w io.Writer, records []storage.JoinedRecord, schoolYear int) error {
	cw, err := newBOMWriter(w)
	if err != nil {
		return err
	}
	rows := [][]string{neisHeader}
	for _, r := range records {
		rows = append(rows, NEISRow(r, schoolYear))
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
