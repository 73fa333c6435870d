// Tests for ansi_term.go

package coopsched_internal

import (
	"bytes"
	"testing"
)

func TestAnsiTermSequences(t *testing.T) {
	for _, tc := range []struct {
		name string
		emit func(at *AnsiTerm)
		want string
	}{
		{"home", func(at *AnsiTerm) { at.Home() }, "\x1b[H"},
		{"clear", func(at *AnsiTerm) { at.Clear() }, "\x1b[2J\x1b[H"},
		{"erase_line", func(at *AnsiTerm) { at.EraseLine() }, "\x1b[2K\r"},
		{"move_to", func(at *AnsiTerm) { at.MoveTo(3, 14) }, "\x1b[3;14H"},
		{
			"set_colors",
			func(at *AnsiTerm) { at.SetColors(ANSI_TERM_COLOR_RED, ANSI_TERM_COLOR_BLACK) },
			"\x1b[31;40m",
		},
		{"reset_colors", func(at *AnsiTerm) { at.ResetColors() }, "\x1b[0m"},
		{"hide_cursor", func(at *AnsiTerm) { at.HideCursor() }, "\x1b[?25l"},
		{"show_cursor", func(at *AnsiTerm) { at.ShowCursor() }, "\x1b[?25h"},
		{"printf", func(at *AnsiTerm) { at.Printf("n=%d", 7) }, "n=7"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tc.emit(NewAnsiTerm(buf))
			if got := buf.String(); got != tc.want {
				t.Errorf("want %q, got %q", tc.want, got)
			}
		})
	}
}
