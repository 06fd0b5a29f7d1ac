package check

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	kindStyle    = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
)

// Format renders issues with the offending source line and a caret
func Format(issues []Issue, sources map[string]string) string {
	var b strings.Builder
	for _, issue := range issues {
		b.WriteString(errorStyle.Sprint("error: ") + kindStyle.Sprint(string(issue.Kind)) + "\n")
		b.WriteString(lineStyle.Sprint(" --> ") + fileStyle.Sprintf("%s:%d:%d", issue.Path, issue.Line, issue.Column) + "\n")

		lines := strings.Split(sources[issue.Path], "\n")
		if issue.Line-1 < len(lines) {
			num := fmt.Sprintf("%d", issue.Line)
			pad := strings.Repeat(" ", len(num))
			line := strings.TrimRight(lines[issue.Line-1], "\r")
			b.WriteString(lineStyle.Sprintf("%s |\n", pad))
			b.WriteString(lineStyle.Sprintf("%s | ", num) + line + "\n")
			b.WriteString(lineStyle.Sprintf("%s | ", pad))
			b.WriteString(strings.Repeat(" ", caretColumn(line, issue.Column)))
			b.WriteString(messageStyle.Sprintf("^ %s\n\n", issue.Message))
		}
	}
	return b.String()
}

// caretColumn maps a 1-indexed UTF-16 column to rune cells before it
func caretColumn(line string, column int) int {
	units, cells := 0, 0
	for _, r := range line {
		if units >= column-1 {
			break
		}
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		cells++
	}
	return cells
}
