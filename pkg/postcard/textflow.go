package postcard

import (
	"fmt"
	"strings"
)

// Measurer reports the advance width of a string in layout units.
type Measurer interface {
	MeasureString(s string) float64
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func(s string) float64

func (f MeasureFunc) MeasureString(s string) float64 { return f(s) }

// Wrap breaks text into lines no wider than maxWidth using greedy word fill.
// Whitespace runs collapse to single spaces. A word wider than maxWidth is
// placed alone on its line and never split.
func Wrap(text string, maxWidth float64, m Measurer) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	lines := make([]string, 0, 4)
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if m.MeasureString(candidate) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}

	return append(lines, current)
}

// CheckLineBudget rejects messages that wrap past MaxMessageLines.
func CheckLineBudget(lines []string) error {
	if len(lines) > MaxMessageLines {
		return fmt.Errorf("%w: message wraps to %d lines, at most %d fit on the card",
			ErrValidation, len(lines), MaxMessageLines)
	}
	return nil
}
