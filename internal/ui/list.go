package ui

import (
	"fmt"
	"io"
	"time"
)

func ExtractionLine(w io.Writer, id string, at time.Time, files int) {
	fmt.Fprintln(w, faintStyle.Render(fmt.Sprintf("extraction %s at %s, %s",
		id, at.Local().Format("2006-01-02 15:04:05"), plural(files, "file"))))
}

func RequirementRow(w io.Writer, id string, parts, files, idWidth int) {
	fmt.Fprintf(w, "%s  %s  %s\n",
		reqStyle.Render(fmt.Sprintf("%-*s", idWidth, id)),
		fmt.Sprintf("%-9s", plural(parts, "part")),
		faintStyle.Render(plural(files, "file")))
}

func PartRow(w io.Writer, title, file string, line, titleWidth int) {
	fmt.Fprintf(w, "%-*s  %s\n", titleWidth, title, faintStyle.Render(fmt.Sprintf("%s:%d", file, line)))
}
