// Copyright 2026 The Drover Authors
// SPDX-License-Identifier: MIT

package health

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Shared color printers for rendered reports.
var (
	colorRed    = color.New(color.FgRed)
	colorYellow = color.New(color.FgYellow)
	colorGreen  = color.New(color.FgGreen)
	colorBold   = color.New(color.Bold)
)

// colorStatus colors a status label for terminal output.
func colorStatus(s Status) string {
	switch s {
	case StatusOK:
		return colorGreen.Sprint("OK")
	case StatusWarn:
		return colorYellow.Sprint("WARN")
	case StatusFail:
		return colorRed.Sprint("FAIL")
	case StatusSkip:
		return "SKIP"
	default:
		return string(s)
	}
}

// Render writes a human-readable report to w.
func Render(w io.Writer, report *Report) {
	fmt.Fprintln(w, colorBold.Sprint("Health checks"))
	for _, res := range report.Results {
		fmt.Fprintf(w, "  %-6s %-16s %s\n", colorStatus(res.Status), res.Name, res.Detail)
	}
	if report.Healthy() {
		fmt.Fprintln(w, colorGreen.Sprint("All checks passed"))
	} else {
		fmt.Fprintln(w, colorRed.Sprint("One or more checks failed"))
	}
}
