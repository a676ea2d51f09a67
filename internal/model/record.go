package model

import (
	"fmt"
	"strings"
)

// Strategy values used by the GDC catalog for biospecimen slide images.
const (
	StrategyTissueSlide     = "Tissue Slide"
	StrategyDiagnosticSlide = "Diagnostic Slide"
)

// UnknownPatient is the fallback identifier used when a FileRecord carries
// neither a case identifier nor a submitter identifier. Multiple unrelated
// records can collapse under this key; GroupByPatient counts how often the
// fallback was taken so callers can surface it.
const UnknownPatient = "Unknown"

// FileRecord is one slide-image file as listed by the GDC catalog.
//
// Records are fetched fresh each run and never mutated locally. FileID is
// globally unique within a project's manifest and keys the remote data
// endpoint; MD5Sum is the reference checksum used to decide whether a local
// copy is already byte-identical.
type FileRecord struct {
	// FileID is the catalog's unique file identifier (a UUID).
	FileID string `json:"file_id"`

	// FileName is the original file name, e.g. "TCGA-XX-XXXX-01Z-00-DX1.svs".
	FileName string `json:"file_name"`

	// MD5Sum is the catalog-provided reference checksum (hex, lowercase).
	MD5Sum string `json:"md5sum"`

	// CaseID identifies the patient (case) the file belongs to.
	// May be empty; see PatientID for the fallback chain.
	CaseID string `json:"case_id,omitempty"`

	// SubmitterID is the first associated case submitter identifier,
	// e.g. "TCGA-XX-XXXX". May be empty.
	SubmitterID string `json:"submitter_id,omitempty"`

	// Size is the file size in bytes as reported by the catalog.
	Size int64 `json:"file_size"`

	// Format is the data format, e.g. "SVS".
	Format string `json:"data_format"`

	// ExperimentalStrategy is "Tissue Slide", "Diagnostic Slide", or
	// occasionally empty for unlabeled files.
	ExperimentalStrategy string `json:"experimental_strategy,omitempty"`
}

// PatientID resolves the identifier a record is grouped under:
// case identifier first, then submitter identifier, then UnknownPatient.
func (r FileRecord) PatientID() string {
	if r.CaseID != "" {
		return r.CaseID
	}
	if r.SubmitterID != "" {
		return r.SubmitterID
	}
	return UnknownPatient
}

// SizeMB returns the file size in megabytes (bytes / 1,048,576).
func (r FileRecord) SizeMB() float64 {
	return float64(r.Size) / (1024 * 1024)
}

// SlideType selects which experimental strategies a run admits.
type SlideType string

const (
	// SlideTypeTissue admits only "Tissue Slide" records.
	SlideTypeTissue SlideType = "tissue"

	// SlideTypeDiagnostic admits only "Diagnostic Slide" records.
	SlideTypeDiagnostic SlideType = "diagnostic"

	// SlideTypeBoth admits every experimental strategy.
	SlideTypeBoth SlideType = "both"

	// SlideTypeNone admits every strategy but switches downloading off;
	// the run persists metadata and summaries only.
	SlideTypeNone SlideType = "none"
)

// ParseSlideType validates a slide-type flag value.
//
// Returns an error for anything outside tissue|diagnostic|both|none.
func ParseSlideType(s string) (SlideType, error) {
	switch SlideType(strings.ToLower(strings.TrimSpace(s))) {
	case SlideTypeTissue:
		return SlideTypeTissue, nil
	case SlideTypeDiagnostic:
		return SlideTypeDiagnostic, nil
	case SlideTypeBoth:
		return SlideTypeBoth, nil
	case SlideTypeNone:
		return SlideTypeNone, nil
	}
	return "", fmt.Errorf("invalid slide type %q: must be tissue, diagnostic, both, or none", s)
}

// Admits reports whether a record with the given experimental strategy
// passes this filter. SlideTypeBoth and SlideTypeNone admit everything.
func (t SlideType) Admits(strategy string) bool {
	switch t {
	case SlideTypeTissue:
		return strategy == StrategyTissueSlide
	case SlideTypeDiagnostic:
		return strategy == StrategyDiagnosticSlide
	default:
		return true
	}
}

// Download reports whether this slide type requests file downloads.
func (t SlideType) Download() bool {
	return t != SlideTypeNone
}
