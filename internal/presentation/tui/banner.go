package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the application banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`   ___       _                         _ _`, "#34d399"},
		{`  / _ \ _ _ | |__  ___  __ _ _ _ __ _ (_) |_ _  __ _`, "#2dd4bf"},
		{` | (_) | ' \| '_ \/ _ \/ _` + "`" + ` | '_/ _` + "`" + ` || | | ' \/ _` + "`" + ` |`, "#22d3ee"},
		{`  \___/|_||_|_.__/\___/\__,_|_| \__,_||_|_|_||_\__, |`, "#38bdf8"},
		{`                                                |___/`, "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, termenv.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}
