package render

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[mGKHF]`)

// palette hands out colors that respect the renderer's color setting
type palette struct {
	enabled bool
}

func (p palette) style(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func (p palette) header(s string) string  { return p.style(color.Bold, color.FgHiWhite).Sprint(s) }
func (p palette) added(s string) string   { return p.style(color.FgGreen).Sprint(s) }
func (p palette) removed(s string) string { return p.style(color.FgRed).Sprint(s) }
func (p palette) faint(s string) string   { return p.style(color.Faint).Sprint(s) }
func (p palette) warn(s string) string    { return p.style(color.FgYellow).Sprint(s) }
func (p palette) kind(s string) string    { return p.style(color.FgCyan, color.Bold).Sprint(s) }

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	msg := message
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}
	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// kindLabel turns a camelCase function name into "Title Case Words"
func kindLabel(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return cases.Title(language.English, cases.NoLower).String(b.String())
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	return t
}

func shortHash(hash string) string {
	if len(hash) <= 14 {
		return hash
	}
	return hash[:10] + "…" + hash[len(hash)-4:]
}

// stripAnsiCodes removes ANSI escape sequences from a string
func stripAnsiCodes(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
