// Package terminal provides prompts and small terminal operations such as clearing text.
package terminal

import (
	"fmt"
	"math"
	"os"

	"golang.org/x/term"
)

// ClearPreviousLines clears text from the terminal f that was previously printed.
// It calculates how many lines were used by the provided text based on the
// terminal width of f, then moves up and clears each line.
//
// This is used to tidy up prompts after they've been answered. Pass the prompt
// label plus the echoed answer so wrapped input is cleared too.
func ClearPreviousLines(f *os.File, textLength int) {
	// Get terminal width to calculate line wrapping
	termWidth := 80 // default fallback
	if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
		termWidth = width
	}

	fmt.Fprint(f, clearSequence(textLength, termWidth))
}

// clearSequence returns the ANSI codes that clear textLength characters of a prompt
// wrapped at width, plus the empty line left after Enter.
func clearSequence(textLength, width int) string {
	totalLines := int(math.Ceil(float64(textLength) / float64(width)))
	if totalLines < 1 {
		totalLines = 1 // At minimum, we have 1 line
	}
	linesToClear := totalLines + 1

	var out string
	for i := 0; i < linesToClear; i++ {
		out += "\r\x1b[2K" // Move to start and clear entire line
		if i < linesToClear-1 {
			out += "\x1b[1A" // Move up one line (don't move up on last iteration)
		}
	}
	return out
}
