package client

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/MKhiriev/go-time-sync/internal/service"
	"github.com/MKhiriev/go-time-sync/models"
)

var (
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// reportOutcome prints o and turns a fatal outcome into the command error.
// A partial failure is not an error: the failed entities stay queued.
func reportOutcome(w io.Writer, o models.SyncOutcome) error {
	switch o.Kind {
	case models.OutcomeSuccess:
		fmt.Fprintln(w, successStyle.Render("sync finished"))
	case models.OutcomePartialFailure:
		fmt.Fprintln(w, warningStyle.Render(fmt.Sprintf("sync finished with %d failed entities", len(o.Failures))))
		for _, tf := range o.TypeFailures {
			fmt.Fprintln(w, faintStyle.Render(fmt.Sprintf("%s could not be pulled: %v", tf.Type, tf.Err)))
		}
		if len(o.Failures) > 0 {
			renderFailures(w, o.Failures)
		}
	case models.OutcomeFatal:
		fmt.Fprintln(w, errorStyle.Render(service.DescribeFatal(o.Err)))
		return o.Err
	}
	return nil
}

func renderFailures(w io.Writer, items []models.SyncFailureItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, successStyle.Render("no failed entities"))
		return
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.Type.String(),
			strconv.FormatInt(item.ID, 10),
			item.Name,
			string(item.Kind),
			item.SyncErrorMessage,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("TYPE", "ID", "NAME", "KIND", "ERROR").
		Rows(rows...)

	fmt.Fprintln(w, t.Render())
}
