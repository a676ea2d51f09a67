// Package model defines the core data structures used throughout
// the gdc-slide-downloader application.
//
// # FileRecord
//
// FileRecord is one slide-image file listing from the GDC catalog,
// carrying the reference MD5 checksum and the identifiers used to
// resolve the owning patient:
//
//	id := record.PatientID() // case_id, else submitter_id, else "Unknown"
//
// # Grouping
//
// GroupByPatient partitions a project manifest into per-patient
// collections, applying the slide-type filter and an optional patient
// allow-list:
//
//	group := model.GroupByPatient(files, model.SlideTypeTissue, nil)
//	for _, patient := range group.Patients() {
//	    records := group.Records(patient)
//	    // ...
//	}
//
// Group order is first-seen patient order; records keep catalog response
// order. Every admitted record appears in exactly one group.
//
// # Summaries
//
// ProjectSummary and PatientSummary are the derived aggregates written to
// the CSV reports; they are computed by the report package.
package model
