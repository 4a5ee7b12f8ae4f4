package console_test

import (
	"reflect"
	"testing"

	"github.com/ABelliqueux/endbasic/pkg/console"
	"github.com/ABelliqueux/endbasic/pkg/console/consoletest"
)

func TestIsNarrow(t *testing.T) {
	tests := []struct {
		width int
		want  bool
	}{
		{0, false},
		{10, true},
		{49, true},
		{50, false},
		{80, false},
	}

	for _, tt := range tests {
		c := consoletest.New()
		c.SetWidth(tt.width)
		if got := console.IsNarrow(c); got != tt.want {
			t.Errorf("IsNarrow at width %d = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestRefillAndPrint_ShortParagraphFits(t *testing.T) {
	c := consoletest.New()
	c.SetWidth(80)

	err := console.RefillAndPrint(c, []string{"Hello there"}, "    ")
	if err != nil {
		t.Fatalf("RefillAndPrint failed: %v", err)
	}

	want := []string{"    Hello there"}
	if got := c.Output(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestRefillAndPrint_WrapsAtWidth(t *testing.T) {
	c := consoletest.New()
	c.SetWidth(20)

	err := console.RefillAndPrint(c, []string{"one two three four five six"}, "  ")
	if err != nil {
		t.Fatalf("RefillAndPrint failed: %v", err)
	}

	for _, line := range c.Output() {
		if len(line) > 20 {
			t.Errorf("Line exceeds the console width: %q", line)
		}
	}

	want := []string{"  one two three", "  four five six"}
	if got := c.Output(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestRefillAndPrint_UnknownWidthWrapsAtEighty(t *testing.T) {
	c := consoletest.New()

	long := ""
	for i := 0; i < 30; i++ {
		long += "word "
	}
	err := console.RefillAndPrint(c, []string{long}, "")
	if err != nil {
		t.Fatalf("RefillAndPrint failed: %v", err)
	}

	out := c.Output()
	if len(out) < 2 {
		t.Fatalf("Expected the paragraph to wrap, got %v", out)
	}
	for _, line := range out {
		if len(line) > 80 {
			t.Errorf("Line exceeds the default width: %q", line)
		}
	}
}

func TestRefillAndPrint_MultipleParagraphs(t *testing.T) {
	c := consoletest.New()
	c.SetWidth(80)

	err := console.RefillAndPrint(c, []string{"first", "second"}, "")
	if err != nil {
		t.Fatalf("RefillAndPrint failed: %v", err)
	}

	want := []string{"first", "second"}
	if got := c.Output(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
