package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

var titleCaser = cases.Title(language.English)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func renderSectionHeader(title string, count int, colorize bool) string {
	line := fmt.Sprintf("== %s (%d) ==", strings.TrimSpace(title), count)
	if colorize {
		return ansiBlue + line + ansiReset
	}
	return line
}

func colorScore(score *int, colorize bool) string {
	if score == nil {
		return "-"
	}
	value := strconv.Itoa(*score)
	if !colorize {
		return value
	}
	switch {
	case *score >= 75:
		return ansiGreen + value + ansiReset
	case *score >= 50:
		return ansiYellow + value + ansiReset
	default:
		return ansiRed + value + ansiReset
	}
}

func optionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// displayRole turns a role constant such as EDITION_VARIANT into "Edition Variant".
func displayRole(role string) string {
	return titleCaser.String(strings.ReplaceAll(strings.ToLower(role), "_", " "))
}
