package display

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"shiftcal/internal/model"
)

var titleStyle = lipgloss.NewStyle().Bold(true)

// PrintRecordsTable prints extracted shifts in a formatted table, preceded
// by a one-line title.
func PrintRecordsTable(name string, records []model.ScheduleRecord, writer io.Writer) {
	fmt.Fprintln(writer, titleStyle.Render(fmt.Sprintf("%s: %d shift(s)", name, len(records))))
	if len(records) == 0 {
		return
	}

	w := tabwriter.NewWriter(writer, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "DATE\tSTART\tEND\tPOSITION")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Date, r.Start, r.End, r.Position)
	}
	w.Flush()
}
