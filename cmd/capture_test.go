package cmd

import (
	"bytes"
	"os"
	"testing"

	"github.com/pterm/pterm"
)

var outBuf bytes.Buffer

// setupStdoutCapture routes pterm and structured output into outBuf for the
// duration of the test.
func setupStdoutCapture(t *testing.T) {
	t.Helper()
	outBuf.Reset()
	pterm.SetDefaultOutput(&outBuf)
	pterm.DisableStyling()
	// SetDefaultOutput does not touch the prefix printers, which captured the
	// default writer at init, so redirect them explicitly.
	printers := []*pterm.PrefixPrinter{&pterm.Info, &pterm.Warning, &pterm.Success, &pterm.Error, &pterm.Fatal, &pterm.Debug, &pterm.Description}
	prevPrinters := make([]pterm.PrefixPrinter, len(printers))
	for i, p := range printers {
		prevPrinters[i] = *p
		p.Writer = &outBuf
	}
	prev := stdout
	stdout = &outBuf
	t.Cleanup(func() {
		pterm.SetDefaultOutput(os.Stdout)
		pterm.EnableStyling()
		for i, p := range printers {
			*p = prevPrinters[i]
		}
		stdout = prev
	})
}
