// Package console abstracts the interactive text console used by the cloud
// session commands: line printing, width queries, and plain or masked line
// input.
package console

import "strings"

// narrowWidth is the width below which a console counts as narrow. Narrow
// consoles skip purely informational output such as the server MOTD.
const narrowWidth = 50

// Console is the interactive text device consumed by the session commands.
type Console interface {
	// Print writes one full line of output, terminating it for the caller.
	Print(line string) error

	// Width returns the console width in characters, or 0 when unknown
	// (e.g. output is redirected to a file).
	Width() int

	// ReadLine prints the prompt and reads one line of input, echoing it.
	ReadLine(prompt string) (string, error)

	// ReadLineSecure prints the prompt and reads one line of input with
	// masking, for passwords.
	ReadLineSecure(prompt string) (string, error)
}

// IsNarrow reports whether the console is too narrow for informational
// output. Unknown widths count as not narrow.
func IsNarrow(c Console) bool {
	w := c.Width()
	return w > 0 && w < narrowWidth
}

// RefillAndPrint word-wraps each paragraph to the console width and prints
// it with the given prefix. Paragraphs that fit on one line are printed
// as-is. An unknown width wraps at 80 columns.
func RefillAndPrint(c Console, paragraphs []string, prefix string) error {
	width := c.Width()
	if width <= 0 {
		width = 80
	}
	limit := width - len(prefix)
	if limit < 10 {
		limit = 10
	}

	for _, paragraph := range paragraphs {
		line := ""
		for _, word := range strings.Fields(paragraph) {
			if line == "" {
				line = word
				continue
			}
			if len(line)+1+len(word) > limit {
				if err := c.Print(prefix + line); err != nil {
					return err
				}
				line = word
				continue
			}
			line += " " + word
		}
		if line != "" {
			if err := c.Print(prefix + line); err != nil {
				return err
			}
		}
	}
	return nil
}
