package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"gopkg.in/yaml.v3"

	"github.com/nhle/energy-planner/internal/budget"
	"github.com/nhle/energy-planner/internal/model"
)

// Output formats accepted by -o.
const (
	formatTable = "table"
	formatYAML  = "yaml"
	formatJSON  = "json"
)

// dayView is the structured form of `list` and `budget` output.
type dayView struct {
	Date      string            `json:"date" yaml:"date"`
	EnergySet bool              `json:"energy_set" yaml:"energy_set"`
	Summary   budget.DaySummary `json:"summary" yaml:"summary"`
	Tasks     []model.Task      `json:"tasks" yaml:"tasks"`
}

func validateFormat(f string) error {
	switch f {
	case formatTable, formatYAML, formatJSON:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want table, yaml or json)", f)
}

// encode writes v as YAML or JSON.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}
	return validateFormat(format)
}

var (
	bold  = color.New(color.Bold)
	faint = color.New(color.Faint)
	done  = color.New(color.Faint, color.CrossedOut)
	warn  = color.New(color.FgHiRed, color.Bold)
	zap   = color.New(color.FgHiYellow)
)

// printTasks renders tasks with their sub-tasks indented underneath.
func printTasks(w io.Writer, tasks []model.Task) {
	if len(tasks) == 0 {
		_, _ = faint.Fprintln(w, "No tasks. Add one with `energyplan add TITLE`.")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), "", bold.Sprint("Task"), bold.Sprint("Energy"), bold.Sprint("Left"), bold.Sprint("Progress"))
	for _, t := range tasks {
		title := t.Symbol.Glyph() + " " + t.Title
		if t.Completed {
			title = done.Sprint(title)
		}
		progress := ""
		if len(t.SubTasks) > 0 {
			progress = fmt.Sprintf("%d/%d", budget.CompletedSubTasks(t), len(t.SubTasks))
		}
		tbl.AddRow(faint.Sprint(shortID(t.ID)), check(t.Completed), title,
			zap.Sprint(t.EnergyCost), budget.Remaining(t), progress)

		for i, st := range t.SubTasks {
			branch := "├─"
			if i == len(t.SubTasks)-1 {
				branch = "└─"
			}
			name := st.Title
			if st.Completed {
				name = done.Sprint(name)
			}
			tbl.AddRow(faint.Sprint(shortID(st.ID)), "", fmt.Sprintf("  %s %s %s", branch, check(st.Completed), name), st.EnergyCost, "", "")
		}
	}
	_, _ = fmt.Fprintln(w, tbl)
}

// printTask renders one task with its budget breakdown.
func printTask(w io.Writer, t model.Task) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Task"), t.Symbol.Glyph()+" "+t.Title)
	tbl.AddRow(bold.Sprint("ID"), t.ID)
	tbl.AddRow(bold.Sprint("Done"), t.Completed)
	tbl.AddRow(bold.Sprint("Color"), t.Color)
	tbl.AddRow(bold.Sprint("Energy"), zap.Sprint(t.EnergyCost))
	tbl.AddRow(bold.Sprint("Allocated"), budget.TotalEnergy(t.SubTasks))
	tbl.AddRow(bold.Sprint("Remaining"), budget.Remaining(t))
	tbl.AddRow(bold.Sprint("Spent"), budget.SpentEnergy(t))
	tbl.AddRow(bold.Sprint("Created"), t.CreatedAt.Format("2006-01-02 15:04"))
	_, _ = fmt.Fprintln(w, tbl)

	if len(t.SubTasks) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w)
	subs := uitable.New()
	subs.Separator = "  "
	subs.AddRow(bold.Sprint("ID"), "", bold.Sprint("Sub-task"), bold.Sprint("Energy"))
	for _, st := range t.SubTasks {
		subs.AddRow(faint.Sprint(shortID(st.ID)), check(st.Completed), st.Title, st.EnergyCost)
	}
	_, _ = fmt.Fprintln(w, subs)
}

// printSummary renders the one-line day overview.
func printSummary(w io.Writer, s budget.DaySummary, energySet bool) {
	if !energySet {
		_, _ = faint.Fprintf(w, "%d/%d tasks done · today's energy not set (default %d)\n",
			s.CompletedTasks, s.TotalTasks, s.Ceiling)
		return
	}
	_, _ = fmt.Fprintf(w, "%d/%d tasks done · %s spent of %d (%.0f%%) · %d planned\n",
		s.CompletedTasks, s.TotalTasks, zap.Sprint(s.Spent), s.Ceiling, s.EnergyPercent, s.Planned)
	if s.OverCommitted {
		_, _ = warn.Fprintf(w, "Planned energy exceeds today's ceiling by %d\n", s.Planned-s.Ceiling)
	}
}

// printEnergyHistory renders stored ceilings oldest first.
func printEnergyHistory(w io.Writer, recs []model.DailyEnergyRecord) {
	if len(recs) == 0 {
		_, _ = faint.Fprintln(w, "No energy recorded in this range.")
		return
	}
	peak := 0
	for _, r := range recs {
		peak = max(peak, r.Ceiling)
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Date"), bold.Sprint("Energy"), "")
	for _, r := range recs {
		tbl.AddRow(r.Date.String(), r.Ceiling, zap.Sprint(bar(r.Ceiling, peak, 30)))
	}
	tbl.RightAlign(1)
	_, _ = fmt.Fprintln(w, tbl)
}

func check(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

func bar(v, peak, width int) string {
	if peak <= 0 {
		return ""
	}
	return strings.Repeat("█", v*width/peak)
}
