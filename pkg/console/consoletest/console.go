// Package consoletest provides a scripted Console for tests: input lines are
// queued up front and all output is captured for inspection.
package consoletest

import (
	"fmt"

	"github.com/ABelliqueux/endbasic/pkg/console"
)

// Console is a scripted test double for console.Console.
type Console struct {
	// width is the width reported to callers; 0 means unknown.
	width int

	input  []string
	output []string
}

var _ console.Console = (*Console)(nil)

// New creates a test console with an unknown width and no queued input.
func New() *Console {
	return &Console{}
}

// SetWidth changes the reported console width.
func (c *Console) SetWidth(width int) {
	c.width = width
}

// AddInput queues lines to be served by subsequent reads, in order.
func (c *Console) AddInput(lines ...string) {
	c.input = append(c.input, lines...)
}

// Output returns all lines printed so far, including echoed prompts.
func (c *Console) Output() []string {
	out := make([]string, len(c.output))
	copy(out, c.output)
	return out
}

func (c *Console) Print(line string) error {
	c.output = append(c.output, line)
	return nil
}

func (c *Console) Width() int {
	return c.width
}

func (c *Console) readLine(prompt string, masked bool) (string, error) {
	if len(c.input) == 0 {
		return "", fmt.Errorf("test console ran out of input at prompt %q", prompt)
	}
	line := c.input[0]
	c.input = c.input[1:]

	echoed := line
	if masked {
		echoed = ""
		for range line {
			echoed += "*"
		}
	}
	c.output = append(c.output, prompt+echoed)
	return line, nil
}

func (c *Console) ReadLine(prompt string) (string, error) {
	return c.readLine(prompt, false)
}

func (c *Console) ReadLineSecure(prompt string) (string, error) {
	return c.readLine(prompt, true)
}
