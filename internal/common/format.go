package common

import (
	"fmt"
	"io"
	"strings"
)

const (
	DefaultWidth = 80
	WideWidth    = 100

	shortIdLength = 8
)

// Field is one labelled line inside a report section
type Field struct {
	Label string
	Value string
}

// Report writes the box-drawn console output of the command-line tools
type Report struct {
	w     io.Writer
	width int
}

func NewReport(w io.Writer, width int) *Report {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Report{w: w, width: width}
}

func (r *Report) separator(char string) string {
	return strings.Repeat(char, r.width)
}

// Header prints the title between two rules
func (r *Report) Header(title string) {
	fmt.Fprintf(r.w, "\n%s\n%s\n%s\n", r.separator("="), title, r.separator("="))
}

// Footer prints the closing summary line
func (r *Report) Footer(message string) {
	fmt.Fprintf(r.w, "\n%s\n%s\n%s\n\n", r.separator("="), message, r.separator("="))
}

// Section opens a box for one account with its labelled fields
func (r *Report) Section(title string, fields ...Field) {
	fmt.Fprintf(r.w, "\n┌─ %s\n", title)

	labelWidth := 0
	for _, f := range fields {
		if len(f.Label) > labelWidth {
			labelWidth = len(f.Label)
		}
	}
	for _, f := range fields {
		fmt.Fprintf(r.w, "│  %-*s %s\n", labelWidth+1, f.Label+":", f.Value)
	}
	fmt.Fprintln(r.w, "├"+strings.Repeat("─", r.width-2))
}

// Item prints one entry of a section; the last one closes the box
func (r *Report) Item(text string, isLast bool) {
	fmt.Fprintf(r.w, "%s%s\n", BoxPrefix(isLast), text)
}

func BoxPrefix(isLast bool) string {
	if isLast {
		return "└  "
	}
	return "│  "
}

// ShortId trims a transfer id for display
func ShortId(id string) string {
	if len(id) > shortIdLength {
		return id[:shortIdLength] + "..."
	}
	return id
}
