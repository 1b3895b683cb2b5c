package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/register/core"
	"github.com/trezcool/register/core/attendance"
	"github.com/trezcool/register/core/student"
	sqlxrepos "github.com/trezcool/register/storage/database/sqlx"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db         *sqlx.DB
	conf       *core.Config
	out        io.Writer
	studentSvc *student.Service
	summarizer *attendance.Summarizer
}

// newCommandLine wires the services the commands run; summaryCache is invalidated by summarize (nil when none).
func newCommandLine(db *sqlx.DB, conf *core.Config, out io.Writer, validate *validator.Validate, logger core.Logger, summaryCache attendance.SummaryCache) *commandLine {
	studentRepo := sqlxrepos.NewStudentRepository(db)
	return &commandLine{
		db:         db,
		conf:       conf,
		out:        out,
		studentSvc: student.NewService(db, studentRepo, validate, logger),
		summarizer: attendance.NewSummarizer(attendance.SummarizerDeps{
			DB:        db,
			Roster:    studentRepo,
			Records:   sqlxrepos.NewAttendanceRepository(db),
			Summaries: sqlxrepos.NewSummaryRepository(db),
			Cache:     summaryCache,
			Validate:  validate,
			Logger:    logger,
			Conf:      conf,
		}),
	}
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                              - run a goose command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  summarize -month YYYY-MM                            - (re)generate the monthly summaries")
	fmt.Fprintln(cli.out, "  export -month YYYY-MM [-form N] [-class NAME] [-out FILE] - export the monthly summaries as CSV")
	fmt.Fprintln(cli.out, "  importstudents -file FILE                           - create or update students from a CSV roster")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	summarizeCmd := cli.newFlagSet("summarize")
	summarizeMonth := summarizeCmd.String("month", "", "The month to summarize, formatted as YYYY-MM.")

	exportCmd := cli.newFlagSet("export")
	exportMonth := exportCmd.String("month", "", "The month to export, formatted as YYYY-MM.")
	exportForm := exportCmd.Int("form", 0, "Only export this form.")
	exportClass := exportCmd.String("class", "", "Only export this class.")
	exportOut := exportCmd.String("out", "", "The CSV file to write (stdout when empty).")

	importCmd := cli.newFlagSet("importstudents")
	importFile := importCmd.String("file", "", "The CSV roster: student_id,admission_number,first_name,last_name,gender,form,class_name")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(ctx, args[2:])
	case "summarize":
		if err := summarizeCmd.Parse(args[2:]); err != nil {
			return helpOr(err)
		}
		if *summarizeMonth == "" {
			summarizeCmd.Usage()
			return errHelp
		}
		return cli.summarize(ctx, *summarizeMonth)
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return helpOr(err)
		}
		if *exportMonth == "" {
			exportCmd.Usage()
			return errHelp
		}
		filter := attendance.SummaryFilter{Month: *exportMonth, Form: *exportForm, ClassName: *exportClass}
		return cli.export(ctx, filter, *exportOut)
	case "importstudents":
		if err := importCmd.Parse(args[2:]); err != nil {
			return helpOr(err)
		}
		if *importFile == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importStudents(ctx, *importFile)
	default:
		cli.printUsage()
		return errHelp
	}
}

func helpOr(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return errHelp
	}
	return err
}
