package report

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/histolab/gdc-slide-downloader/internal/ioutils"
	"github.com/histolab/gdc-slide-downloader/internal/model"
)

var projectHeader = table.Row{
	"Project", "Total Patients", "Total Slides", "Tissue Slides",
	"Diagnostic Slides", "Total Size (MB)", "File Formats",
}

var patientHeader = table.Row{
	"Patient ID", "Number of Slides", "Tissue Slides", "Diagnostic Slides", "Size (MB)",
}

func projectRow(s model.ProjectSummary) table.Row {
	return table.Row{
		s.ProjectID,
		s.Patients,
		s.Slides,
		s.TissueSlides,
		s.DiagnosticSlides,
		fmt.Sprintf("%.2f", s.SizeMB()),
		strings.Join(s.Formats, ", "),
	}
}

// WriteProjectCSV writes the two-section summary for one project:
// a project-totals section followed by per-patient rows. The file is
// fully overwritten each run.
func WriteProjectCSV(path string, s model.ProjectSummary) error {
	totals := table.NewWriter()
	totals.AppendHeader(projectHeader)
	totals.AppendRow(projectRow(s))

	patients := table.NewWriter()
	patients.AppendHeader(patientHeader)
	for _, row := range s.ByPatient {
		patients.AppendRow(table.Row{
			row.PatientID,
			row.Slides,
			row.TissueSlides,
			row.DiagnosticSlides,
			fmt.Sprintf("%.2f", row.SizeMB()),
		})
	}

	content := totals.RenderCSV() + "\n\n" + patients.RenderCSV() + "\n"
	return ioutils.WriteFile(path, []byte(content))
}

// WriteAllProjectsCSV writes the cross-project report, one row per
// processed project, in processing order. The file is fully overwritten
// each run.
func WriteAllProjectsCSV(path string, summaries []model.ProjectSummary) error {
	tw := table.NewWriter()
	tw.AppendHeader(projectHeader)
	for _, s := range summaries {
		tw.AppendRow(projectRow(s))
	}

	return ioutils.WriteFile(path, []byte(tw.RenderCSV()+"\n"))
}

// RenderSummaryTable renders the cross-project summaries as a console
// table for end-of-run output.
func RenderSummaryTable(summaries []model.ProjectSummary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(projectHeader)
	for _, s := range summaries {
		tw.AppendRow(projectRow(s))
	}
	return tw.Render()
}
