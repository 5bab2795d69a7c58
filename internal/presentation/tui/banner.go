package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	" _ __   _____      _____ _ __ ___   ___ _ __ ___   ___",
	"| '_ \\ / _ \\ \\ /\\ / / __| '_ ` _ \\ / _ \\ '_ ` _ \\ / _ \\",
	"| | | |  __/\\ V  V /\\__ \\ | | | | |  __/ | | | | |  __/",
	"|_| |_|\\___| \\_/\\_/ |___/_| |_| |_|\\___|_| |_| |_|\\___|",
}

var bannerColors = []string{"#fb923c", "#f97316", "#ea580c", "#c2410c"}

// PrintBanner writes the newsmeme banner to w.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, out.String(line).Foreground(out.Color(bannerColors[i])))
	}
	fmt.Fprintln(w)
}
