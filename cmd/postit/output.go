package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tgienger/postit/internal/models"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
	ansiPurple = "\033[35m"
	ansiGray   = "\033[90m"
)

var titleCaser = cases.Title(language.English)

// printer formats values for one output stream
type printer struct {
	out      io.Writer
	colorize bool
}

func newPrinter(out io.Writer) printer {
	return printer{out: out, colorize: shouldColorize(out)}
}

func (p printer) paint(code, value string) string {
	if !p.colorize || code == "" {
		return value
	}
	return code + value + ansiReset
}

func (p printer) priority(pr models.Priority) string {
	label := titleCaser.String(pr.Label())
	switch pr {
	case models.PriorityHigh:
		return p.paint(ansiRed, label)
	case models.PriorityMedium:
		return p.paint(ansiYellow, label)
	case models.PriorityLow:
		return p.paint(ansiGreen, label)
	}
	return label
}

func (p printer) color(c models.Color) string {
	return p.paint(colorCode(c), string(c))
}

func (p printer) done(done bool) string {
	if done {
		return p.paint(ansiGreen, "✓")
	}
	return ""
}

func colorCode(c models.Color) string {
	switch c {
	case "red", "pink":
		return ansiRed
	case "green":
		return ansiGreen
	case "yellow", "orange":
		return ansiYellow
	case "blue":
		return ansiBlue
	case "purple":
		return ansiPurple
	case "gray":
		return ansiGray
	}
	return ""
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
