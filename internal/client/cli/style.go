package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/taskdesk/internal/client/client"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
)

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf(format, args...)))
}

// printError shows the server's own message when there is one.
func printError(w io.Writer, err error) {
	msg := err.Error()
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		msg = apiErr.Error()
	}
	fmt.Fprintln(w, errorStyle.Render("Error: "+msg))
}
