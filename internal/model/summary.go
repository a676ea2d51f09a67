package model

// ProjectSummary aggregates one project's grouped manifest.
//
// Computed by the report package, never persisted except as a report row.
type ProjectSummary struct {
	// ProjectID is the catalog project identifier, e.g. "TCGA-BRCA".
	ProjectID string

	// Patients is the number of distinct patient groups.
	Patients int

	// Slides is the total number of slide records across all patients.
	Slides int

	// TissueSlides counts records with the "Tissue Slide" strategy.
	TissueSlides int

	// DiagnosticSlides counts records with the "Diagnostic Slide" strategy.
	DiagnosticSlides int

	// SizeBytes is the summed size of every record.
	SizeBytes int64

	// Formats lists the distinct data formats, sorted for determinism.
	Formats []string

	// ByPatient holds the per-patient rows, sorted by patient identifier.
	ByPatient []PatientSummary
}

// SizeMB returns the total size in megabytes (bytes / 1,048,576).
func (s ProjectSummary) SizeMB() float64 {
	return float64(s.SizeBytes) / (1024 * 1024)
}

// PatientSummary is one per-patient row of a project summary.
type PatientSummary struct {
	PatientID        string
	Slides           int
	TissueSlides     int
	DiagnosticSlides int
	SizeBytes        int64
}

// SizeMB returns the patient's summed size in megabytes.
func (s PatientSummary) SizeMB() float64 {
	return float64(s.SizeBytes) / (1024 * 1024)
}
