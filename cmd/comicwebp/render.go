package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"comicwebp/internal/pipeline"
	"comicwebp/internal/services"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

// renderReport prints the run summary. Terminals get a stage table; pipes
// and files get plain key/value lines that are easy to grep.
func renderReport(out io.Writer, report pipeline.Report, colorize bool) {
	status := report.Status()
	if !colorize {
		fmt.Fprintf(out, "run: %s\n", report.RunID)
		fmt.Fprintf(out, "input: %s\n", report.Input)
		if report.Output != "" {
			fmt.Fprintf(out, "output: %s\n", report.Output)
		}
		fmt.Fprintf(out, "status: %s\n", status)
		fmt.Fprintf(out, "converted: %d\n", len(report.Converted))
		fmt.Fprintf(out, "failed: %d\n", len(report.Failed))
		fmt.Fprintf(out, "packaged: %d\n", len(report.Entries))
		for _, stage := range report.Stages {
			for _, diag := range stage.Diagnostics {
				fmt.Fprintf(out, "%s: %s\n", stage.Stage, diagnosticText(diag))
			}
		}
		if report.Err != nil {
			fmt.Fprintf(out, "error: %v\n", report.Err)
		}
		return
	}

	rows := make([][]string, 0, len(report.Stages))
	for _, stage := range report.Stages {
		notes := make([]string, 0, len(stage.Diagnostics))
		for _, diag := range stage.Diagnostics {
			notes = append(notes, diagnosticText(diag))
		}
		rows = append(rows, []string{stage.Stage, colorStatus(stage.Status), strings.Join(notes, "\n")})
	}
	output := report.Output
	if output == "" {
		output = "(no archive)"
	}
	fmt.Fprintf(out, "%s -> %s\n", report.Input, output)
	fmt.Fprintln(out, renderTable([]string{"Stage", "Status", "Notes"}, rows, nil))
	fmt.Fprintf(out, "%s  converted %d, failed %d, packaged %d in %s\n",
		colorStatus(status),
		len(report.Converted),
		len(report.Failed),
		len(report.Entries),
		report.Duration().Round(time.Millisecond),
	)
	if report.Err != nil {
		fmt.Fprintf(out, "%serror:%s %v\n", ansiRed, ansiReset, report.Err)
	}
}

func diagnosticText(diag services.Diagnostic) string {
	parts := []string{diag.Subject, diag.Message}
	if diag.ExitCode >= 0 {
		parts = append(parts, "exit "+strconv.Itoa(diag.ExitCode))
	}
	return strings.Join(nonEmpty(parts), ": ")
}

func nonEmpty(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func colorStatus(status services.Status) string {
	switch status {
	case services.StatusSucceeded:
		return ansiGreen + string(status) + ansiReset
	case services.StatusPartial:
		return ansiYellow + string(status) + ansiReset
	case services.StatusFatal:
		return ansiRed + string(status) + ansiReset
	}
	return string(status)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
