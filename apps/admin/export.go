package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/trezcool/register/core/attendance"
)

type countingWriter struct {
	n int64
	w io.Writer
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

func (cli *commandLine) export(ctx context.Context, filter attendance.SummaryFilter, out string) error {
	entries, err := cli.summarizer.FetchSummary(ctx, filter)
	if err != nil {
		return err
	}

	if out == "" {
		return attendance.WriteSummariesCSV(cli.out, entries)
	}

	f, err := os.Create(out)
	if err != nil {
		return errors.Wrap(err, "creating export file")
	}
	cw := &countingWriter{w: f}
	if err = attendance.WriteSummariesCSV(cw, entries); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, "closing export file")
	}

	fmt.Fprintf(
		cli.out, "%s %s exported to %s (%s)\n",
		humanize.Comma(int64(len(entries))), plural(len(entries), "row", "rows"), out, humanize.Bytes(uint64(cw.n)),
	)
	return nil
}
