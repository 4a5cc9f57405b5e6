package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/grovetools/steam-shortcut-sync/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler writing to out.
func NewErrorHandler(out io.Writer, verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     out,
	}
}

var (
	errorLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// hints are printed after the error for codes with an obvious remedy.
var hints = map[errors.ErrorCode]string{
	errors.ErrCodeNoRuntimeDir:         "Run inside a user session, or export XDG_RUNTIME_DIR.",
	errors.ErrCodeNoStorefrontDir:      "Install Steam from Flathub and start it once, or set steam_data_dir.",
	errors.ErrCodeDaemonNotRunning:     "Start it with 'steam-shortcut-sync daemon start'.",
	errors.ErrCodeDaemonAlreadyRunning: "Stop it with 'steam-shortcut-sync daemon stop' first.",
	errors.ErrCodeConfigInvalid:        "Print the accepted keys with 'steam-shortcut-sync config schema'.",
	errors.ErrCodeCommandNotFound:      "Install the command or change post_step in the configuration.",
	errors.ErrCodePostStepFailed:       "Check the post_step command; set it to [] to disable it.",
}

// Handle prints err with a hint and returns the process exit code.
func (h *ErrorHandler) Handle(err error) int {
	if err == nil {
		return 0
	}

	fmt.Fprintf(h.Out, "%s %v\n", errorLabel.Render("Error:"), err)

	if hint, ok := hints[errors.GetCode(err)]; ok {
		fmt.Fprintln(h.Out, hintStyle.Render(hint))
	}

	if h.Verbose {
		if syncErr, ok := err.(*errors.SyncError); ok {
			fmt.Fprintf(h.Out, "\nError details:\n%s\n", syncErr.ToJSON())
		}
	}

	return errors.ExitCode(err)
}
