package report

import (
	"sort"

	"github.com/histolab/gdc-slide-downloader/internal/model"
)

// SummarizeProject computes the derived aggregate for one project's
// grouped manifest.
//
// Counts satisfy: Slides = TissueSlides + DiagnosticSlides + records of
// other or unlabeled strategies. Formats are distinct and sorted, and
// per-patient rows are sorted by patient identifier, so the summary is
// deterministic given identical input.
func SummarizeProject(projectID string, group *model.PatientGroup) model.ProjectSummary {
	summary := model.ProjectSummary{
		ProjectID: projectID,
		Patients:  group.Len(),
	}

	formats := make(map[string]struct{})
	for _, patientID := range group.Patients() {
		row := model.PatientSummary{PatientID: patientID}
		for _, rec := range group.Records(patientID) {
			row.Slides++
			row.SizeBytes += rec.Size
			switch rec.ExperimentalStrategy {
			case model.StrategyTissueSlide:
				row.TissueSlides++
			case model.StrategyDiagnosticSlide:
				row.DiagnosticSlides++
			}

			format := rec.Format
			if format == "" {
				format = "Unknown"
			}
			formats[format] = struct{}{}
		}

		summary.Slides += row.Slides
		summary.TissueSlides += row.TissueSlides
		summary.DiagnosticSlides += row.DiagnosticSlides
		summary.SizeBytes += row.SizeBytes
		summary.ByPatient = append(summary.ByPatient, row)
	}

	summary.Formats = make([]string, 0, len(formats))
	for format := range formats {
		summary.Formats = append(summary.Formats, format)
	}
	sort.Strings(summary.Formats)

	sort.Slice(summary.ByPatient, func(i, j int) bool {
		return summary.ByPatient[i].PatientID < summary.ByPatient[j].PatientID
	})

	return summary
}
