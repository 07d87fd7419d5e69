// Package report renders process history and the final summary, and exports
// the summary as JSON to any afs supported location.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/viant/scheduler/model/process"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	ruleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

const rule = "-------------------------------------------------------"

// History renders the submitted programs with a 1-based index.
func History(snapshots []process.Snapshot) string {
	rows := make([][]string, 0, len(snapshots))
	for i, snapshot := range snapshots {
		rows = append(rows, []string{strconv.Itoa(i + 1), snapshot.Name, strconv.Itoa(snapshot.Priority)})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(ruleStyle).
		Headers("Index", "Process Name", "Priority").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return titleStyle.Render("Process History") + "\n" + t.String() + "\n"
}

// Summary renders one block per process.
func Summary(snapshots []process.Snapshot) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Process Information Summary"))
	b.WriteString("\n")
	b.WriteString(ruleStyle.Render(rule))
	b.WriteString("\n")
	for i, snapshot := range snapshots {
		fmt.Fprintf(&b, "** Process #%d **\n", i+1)
		fmt.Fprintf(&b, "  Name:            %s\n", snapshot.Name)
		fmt.Fprintf(&b, "  PID:             %d\n", snapshot.PID)
		fmt.Fprintf(&b, "  Priority:        %d\n", snapshot.Priority)
		fmt.Fprintf(&b, "  Start Time:      %s\n", Timestamp(snapshot.StartTime))
		fmt.Fprintf(&b, "  Completion Time: %s\n", Timestamp(snapshot.EndTime))
		fmt.Fprintf(&b, "  Elapsed Time:    %d milliseconds\n", snapshot.ElapsedMs)
		fmt.Fprintf(&b, "  Output:\n    %s\n", indent(snapshot.Output))
		b.WriteString(ruleStyle.Render(rule))
		b.WriteString("\n")
	}
	return b.String()
}

// Timestamp formats t as seconds and microseconds since the epoch; the zero
// time prints as zero.
func Timestamp(t time.Time) string {
	if t.IsZero() {
		return "0 seconds and 000000 microseconds"
	}
	micros := t.UnixMicro()
	return fmt.Sprintf("%d seconds and %06d microseconds", micros/1e6, micros%1e6)
}

func indent(output string) string {
	output = strings.TrimRight(output, "\n")
	return strings.ReplaceAll(output, "\n", "\n    ")
}
