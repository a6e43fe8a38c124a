package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	faintStyle = lipgloss.NewStyle().Faint(true)
)

func OkLine(w io.Writer, path string, parts int) {
	fmt.Fprintln(w, okStyle.Render("ok")+"   "+path+"  "+faintStyle.Render(plural(parts, "part")))
}

func ErrLine(w io.Writer, path string, err error) {
	fmt.Fprintln(w, errStyle.Render("err")+"  "+path)
	fmt.Fprintln(w, "     "+faintStyle.Render(err.Error()))
}

func SummaryLine(w io.Writer, files, failed, parts, requirements int) {
	fmt.Fprintf(w, "extracted %s, %s, %s",
		plural(files-failed, "file"), plural(parts, "part"), plural(requirements, "requirement"))
	if failed > 0 {
		fmt.Fprint(w, ", "+errStyle.Render(fmt.Sprintf("%d failed", failed)))
	}
	fmt.Fprintln(w)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
