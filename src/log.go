package powercom

import (
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger builds the charmbracelet/log logger both commands share.
// verbose raises the level to Debug; otherwise only Info and above are
// printed, keeping the steady-state sample/tick output quiet by default.
func NewLogger(verbose bool) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if verbose {
		l.SetLevel(log.DebugLevel)
	} else {
		l.SetLevel(log.InfoLevel)
	}
	return l
}
