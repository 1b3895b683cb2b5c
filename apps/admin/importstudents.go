package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/register/core"
	"github.com/trezcool/register/core/student"
)

var rosterHeader = []string{"student_id", "admission_number", "first_name", "last_name", "gender", "form", "class_name"}

func (cli *commandLine) importStudents(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening roster")
	}
	defer func() { _ = f.Close() }()

	students, err := readRoster(f)
	if err != nil {
		return err
	}

	n, err := cli.studentSvc.Import(ctx, students)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s %s imported\n", humanize.Comma(int64(n)), plural(n, "student", "students"))
	return nil
}

// readRoster parses a CSV roster; the header row is required and columns are matched by name.
func readRoster(r io.Reader) ([]student.Student, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "reading roster header")
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(core.CleanString(name))] = i
	}
	for _, name := range rosterHeader[:4] {
		if _, ok := cols[name]; !ok {
			return nil, errors.Errorf("roster: missing %q column", name)
		}
	}

	get := func(rec []string, name string) string {
		if i, ok := cols[name]; ok && i < len(rec) {
			return core.CleanString(rec[i])
		}
		return ""
	}

	students := make([]student.Student, 0)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading roster line %d", line)
		}

		id, err := strconv.ParseInt(get(rec, "student_id"), 10, 64)
		if err != nil {
			return nil, errors.Errorf("roster line %d: invalid student_id %q", line, get(rec, "student_id"))
		}
		std := student.Student{
			ID:              id,
			AdmissionNumber: get(rec, "admission_number"),
			FirstName:       get(rec, "first_name"),
			LastName:        get(rec, "last_name"),
		}
		if g := get(rec, "gender"); g != "" {
			std.Gender = null.StringFrom(g)
		}
		if form := get(rec, "form"); form != "" {
			n, err := strconv.Atoi(form)
			if err != nil {
				return nil, errors.Errorf("roster line %d: invalid form %q", line, form)
			}
			std.Form = null.IntFrom(n)
		}
		if c := get(rec, "class_name"); c != "" {
			std.ClassName = null.StringFrom(c)
		}
		students = append(students, std)
	}
	return students, nil
}
