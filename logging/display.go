package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// printErrorMessage prints a standard Go error on a single line
func printErrorMessage(w io.Writer, tag string, err error) {
	fmt.Fprintln(w, ErrorStyleBG.Sprint(tag), ErrorColorFG.Sprint(err.Error()))
}

// printWarningMessage prints a warning message
func printWarningMessage(w io.Writer, tag, msg string) {
	fmt.Fprintln(w, WarnStyleBG.Sprint(tag), WarnColorFG.Sprint(msg))
}

// printInfoMessage prints an informational message to the user
func printInfoMessage(w io.Writer, tag, msg string) {
	fmt.Fprintln(w, InfoStyleBG.Sprint(tag), InfoColorFG.Sprint(msg))
}

// -----------------------------------------------------------------------------

// phaseSpinner stores the current phase spinner
var phaseSpinner *pterm.SpinnerPrinter
var currentPhase string
var phaseStartTime time.Time

const maxPhaseLength = len("Installing")

func padPhase(phase string) string {
	if len(phase) >= maxPhaseLength {
		return phase + "  "
	}

	return phase + strings.Repeat(" ", maxPhaseLength-len(phase)+2)
}

// displayBeginPhase displays the beginning of a pipeline phase
func displayBeginPhase(phase string) {
	displayEndPhase(true)

	currentPhase = phase
	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(InfoColorFG))

	spinner.SuccessPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: SuccessStyleBG,
			Text:  "Done",
		},
	}

	spinner.FailPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: ErrorStyleBG,
			Text:  "Fail",
		},
	}

	phaseSpinner, _ = spinner.Start(padPhase(phase + "..."))
	phaseStartTime = time.Now()
}

// displayEndPhase displays the end of a pipeline phase
func displayEndPhase(success bool) {
	if phaseSpinner == nil {
		return
	}

	if success {
		phaseSpinner.Success(
			padPhase(currentPhase),
			fmt.Sprintf("(%.3fs)", time.Since(phaseStartTime).Seconds()),
		)
	} else {
		phaseSpinner.Fail(padPhase(currentPhase))
	}

	phaseSpinner = nil
}
