// Package progress shows a spinner on stderr while slow work runs.
package progress

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"
)

// Capabilities describes what the terminal behind a writer can display.
type Capabilities struct {
	IsTTY           bool
	SupportsUnicode bool
}

// Symbols holds the spinner character set for a terminal.
type Symbols struct {
	SpinnerSet int
}

// Detect reports the capabilities of f. KACL_ASCII=1 forces ASCII output.
func Detect(f *os.File) Capabilities {
	isTTY := f != nil && term.IsTerminal(int(f.Fd()))
	return Capabilities{
		IsTTY:           isTTY,
		SupportsUnicode: isTTY && os.Getenv("KACL_ASCII") != "1",
	}
}

// SelectSymbols picks braille dots (set 14) on unicode terminals and
// |/-\ (set 9) otherwise.
func SelectSymbols(caps Capabilities) Symbols {
	if caps.SupportsUnicode {
		return Symbols{SpinnerSet: 14}
	}
	return Symbols{SpinnerSet: 9}
}

// Start animates a spinner with message on w and returns the func that
// stops it. Nothing is drawn unless caps.IsTTY.
func Start(w io.Writer, caps Capabilities, message string) func() {
	if !caps.IsTTY {
		return func() {}
	}

	sym := SelectSymbols(caps)
	s := spinner.New(spinner.CharSets[sym.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	s.Start()
	return s.Stop
}
