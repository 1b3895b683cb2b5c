package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
)

func (cli *commandLine) summarize(ctx context.Context, month string) error {
	n, err := cli.summarizer.GenerateSummary(ctx, month)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s monthly %s generated for %s\n", humanize.Comma(int64(n)), plural(n, "summary", "summaries"), month)
	return nil
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
