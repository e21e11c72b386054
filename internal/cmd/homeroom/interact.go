package homeroom

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ghchoi48/homeroom/internal/counseling"
	"github.com/ghchoi48/homeroom/internal/counseling/app"
	"github.com/ghchoi48/homeroom/internal/counseling/worker"
	"github.com/ghchoi48/homeroom/internal/settings"
)

const usageText = `commands:
  students                        list all student names
  show <name>                     show a student and their records
  add-student <name>              add a student
  delete-student <name>           delete a student and their records
  add-record <name|date|target|method|category|content>
                                  add a counseling record (date: YYYY-MM-DD HH:mm)
  delete-record <id>              delete a counseling record
  export-all <path>               export students and records
  export-students <path>          export students only
  export-records <path>           export records only
  export-form <path>              export a blank students template
  export-neis <path> <start> <end>
                                  export the NEIS template for a date range
  import-students <path>          import a students CSV (all-or-nothing)
  set-year <year>                 set the NEIS school year
  set-font <size>                 set the font size preference
  quit`

// interact runs the line-oriented command loop. Every data operation goes
// through the worker queue; this loop only parses input and renders results.
func interact(ctx context.Context, queue *worker.Queue, service *app.Service, settingsStore *settings.Store, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, usageText)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		verb, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		if verb == "quit" || verb == "exit" {
			return nil
		}
		if verb == "help" {
			fmt.Fprintln(out, usageText)
			continue
		}

		result := dispatch(ctx, queue, service, settingsStore, verb, rest)
		render(out, result)
	}
}

func dispatch(ctx context.Context, queue *worker.Queue, service *app.Service, settingsStore *settings.Store, verb, rest string) worker.Result {
	switch verb {
	case "students":
		return queue.Do(ctx, verb, func(ctx context.Context) (any, error) {
			return service.StudentNames(ctx)
		})
	case "show":
		return queue.Do(ctx, verb, func(ctx context.Context) (any, error) {
			student, err := service.Student(ctx, rest)
			if err != nil {
				return nil, err
			}
			records, err := service.Records(ctx, rest)
			if err != nil {
				return nil, err
			}
			return studentView{Student: student, Records: records}, nil
		})
	case "add-student":
		return queue.Do(ctx, verb, func(ctx context.Context) (any, error) {
			return nil, service.AddStudent(ctx, counseling.Student{Name: rest})
		})
	case "delete-student":
		return queue.Do(ctx, verb, func(ctx context.Context) (any, error) {
			return nil, service.DeleteStudent(ctx, rest)
		})
	case "add-record":
		name, record, err := parseRecordInput(rest)
		if err != nil {
			return worker.Result{Op: verb, Err: err}
		}
		return queue.Do(ctx, verb, func(ctx context.Context) (any, error) {
			return nil, service.AddRecord(ctx, name, record)
		})
	case "delete-record":
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return worker.Result{Op: verb, Err: fmt.Errorf("record id must be a number")}
		}
		return queue.Do(ctx, verb, func(ctx context.Context) (any, error) {
			return nil, service.DeleteRecord(ctx, id)
		})
	case "export-all":
		return queue.Do(ctx, verb, func(ctx context.Context) (any, error) {
			return nil, service.ExportAll(ctx, rest)
		})
	case "export-students":
		return queue.Do(ctx, verb, func(ctx context.Context) (any, error) {
			return nil, service.ExportStudents(ctx, rest)
		})
	case "export-records":
		return queue.Do(ctx, verb, func(ctx context.Context) (any, error) {
			return nil, service.ExportRecords(ctx, rest)
		})
	case "export-form":
		return queue.Do(ctx, verb, func(ctx context.Context) (any, error) {
			return nil, service.ExportStudentsForm(ctx, rest)
		})
	case "export-neis":
		fields := strings.Fields(rest)
		if len(fields) != 3 {
			return worker.Result{Op: verb, Err: fmt.Errorf("usage: export-neis <path> <start> <end>")}
		}
		return queue.Do(ctx, verb, func(ctx context.Context) (any, error) {
			return nil, service.ExportNEIS(ctx, fields[0], fields[1], fields[2])
		})
	case "import-students":
		return queue.Do(ctx, verb, func(ctx context.Context) (any, error) {
			return nil, service.ImportStudents(ctx, rest)
		})
	case "set-year":
		year, err := strconv.Atoi(rest)
		if err != nil {
			return worker.Result{Op: verb, Err: fmt.Errorf("school year must be a number")}
		}
		return worker.Result{Op: verb, Err: settingsStore.SetSchoolYear(year)}
	case "set-font":
		size, err := strconv.Atoi(rest)
		if err != nil {
			return worker.Result{Op: verb, Err: fmt.Errorf("font size must be a number")}
		}
		return worker.Result{Op: verb, Err: settingsStore.SetFontSize(size)}
	default:
		return worker.Result{Op: verb, Err: fmt.Errorf("unknown command %q (try help)", verb)}
	}
}

type studentView struct {
	Student counseling.Student
	Records []counseling.Record
}

// parseRecordInput splits "name|date|target|method|category|content".
func parseRecordInput(input string) (string, counseling.Record, error) {
	parts := strings.SplitN(input, "|", 6)
	if len(parts) != 6 {
		return "", counseling.Record{}, fmt.Errorf("usage: add-record <name|date|target|method|category|content>")
	}
	record := counseling.Record{
		CounselDate: strings.TrimSpace(parts[1]),
		Target:      counseling.Target(strings.TrimSpace(parts[2])),
		Method:      counseling.Method(strings.TrimSpace(parts[3])),
		Category:    counseling.Category(strings.TrimSpace(parts[4])),
		Content:     strings.TrimSpace(parts[5]),
	}
	return strings.TrimSpace(parts[0]), record, nil
}

func render(out io.Writer, result worker.Result) {
	if result.Err != nil {
		fmt.Fprintf(out, "%s: %v\n", result.Op, result.Err)
		return
	}
	switch value := result.Value.(type) {
	case nil:
		fmt.Fprintf(out, "%s: ok\n", result.Op)
	case []string:
		for _, name := range value {
			fmt.Fprintln(out, name)
		}
		fmt.Fprintf(out, "%d student(s)\n", len(value))
	case studentView:
		s := value.Student
		fmt.Fprintf(out, "#%d %s  phone=%s gender=%s birth=%s\n", s.ID, s.Name, s.Phone, s.Gender, s.BirthDate)
		if s.Memo != "" {
			fmt.Fprintf(out, "memo: %s\n", s.Memo)
		}
		for _, r := range value.Records {
			fmt.Fprintf(out, "  [%d] %s %s/%s/%s: %s\n", r.ID, r.CounselDate, r.Target, r.Method, r.Category, r.Content)
		}
		fmt.Fprintf(out, "%d record(s)\n", len(value.Records))
	default:
		fmt.Fprintf(out, "%s: %v\n", result.Op, value)
	}
}
