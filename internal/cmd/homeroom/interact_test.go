package homeroom

import (
	"errors"
	"strings"
	"testing"

	"github.com/ghchoi48/homeroom/internal/counseling"
	"github.com/ghchoi48/homeroom/internal/counseling/worker"
)

func TestParseRecordInput(t *testing.T) {
	name, record, err := parseRecordInput("김철수 | 2024-03-15 14:30 | student | phone | career | progress talk")
	if err != nil {
		t.Fatalf("parse record input: %v", err)
	}
	if name != "김철수" {
		t.Fatalf("name = %q", name)
	}
	if record.CounselDate != "2024-03-15 14:30" {
		t.Fatalf("counsel date = %q", record.CounselDate)
	}
	if record.Target != counseling.TargetStudent || record.Method != counseling.MethodPhone || record.Category != counseling.CategoryCareer {
		t.Fatalf("record = %+v", record)
	}
	if record.Content != "progress talk" {
		t.Fatalf("content = %q", record.Content)
	}
}

func TestParseRecordInputKeepsPipesInContent(t *testing.T) {
	_, record, err := parseRecordInput("김철수|2024-03-15 14:30|student|phone|career|a|b|c")
	if err != nil {
		t.Fatalf("parse record input: %v", err)
	}
	if record.Content != "a|b|c" {
		t.Fatalf("content = %q", record.Content)
	}
}

func TestParseRecordInputTooFewFields(t *testing.T) {
	if _, _, err := parseRecordInput("김철수|2024-03-15 14:30|student"); err == nil {
		t.Fatal("expected error for short input")
	}
}

func TestRenderReportsErrors(t *testing.T) {
	var out strings.Builder
	render(&out, worker.Result{Op: "delete-student", Err: errors.New("student not found")})
	got := out.String()
	if !strings.Contains(got, "delete-student") || !strings.Contains(got, "student not found") {
		t.Fatalf("render output = %q", got)
	}
}

func TestRenderStudentView(t *testing.T) {
	var out strings.Builder
	render(&out, worker.Result{Op: "show", Value: studentView{
		Student: counseling.Student{ID: 3, Name: "김철수", Memo: "transfer student"},
		Records: []counseling.Record{{ID: 7, CounselDate: "2024-03-15 14:30", Target: counseling.TargetStudent, Method: counseling.MethodPhone, Category: counseling.CategoryCareer, Content: "note"}},
	}})
	got := out.String()
	for _, want := range []string{"김철수", "transfer student", "2024-03-15 14:30", "note"} {
		if !strings.Contains(got, want) {
			t.Fatalf("render output missing %q:\n%s", want, got)
		}
	}
}
