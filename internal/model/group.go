package model

// PatientGroup partitions a project manifest by patient identifier.
//
// Iteration order of Patients follows the first appearance of each patient
// in the source manifest, and records within a patient keep catalog
// response order. Build groups with GroupByPatient; the zero value is
// usable as an empty group.
type PatientGroup struct {
	order   []string
	records map[string][]FileRecord

	// unknownFallbacks counts records whose identifier resolved to
	// UnknownPatient. Unrelated records merge under that key, so callers
	// should warn when this is non-zero.
	unknownFallbacks int
}

// Add appends a record under its resolved patient identifier.
func (g *PatientGroup) Add(rec FileRecord) {
	id := rec.PatientID()
	if id == UnknownPatient {
		g.unknownFallbacks++
	}
	if g.records == nil {
		g.records = make(map[string][]FileRecord)
	}
	if _, seen := g.records[id]; !seen {
		g.order = append(g.order, id)
	}
	g.records[id] = append(g.records[id], rec)
}

// Patients returns the patient identifiers in first-seen order.
func (g *PatientGroup) Patients() []string {
	return g.order
}

// Records returns the records grouped under the given patient, in catalog
// response order. Returns nil for an unknown patient.
func (g *PatientGroup) Records(patientID string) []FileRecord {
	return g.records[patientID]
}

// Len returns the number of distinct patients in the group.
func (g *PatientGroup) Len() int {
	return len(g.order)
}

// TotalRecords returns the number of records across all patients.
func (g *PatientGroup) TotalRecords() int {
	n := 0
	for _, recs := range g.records {
		n += len(recs)
	}
	return n
}

// UnknownFallbacks returns how many records collapsed under UnknownPatient.
func (g *PatientGroup) UnknownFallbacks() int {
	return g.unknownFallbacks
}

// GroupByPatient partitions files into per-patient collections.
//
// A record is admitted when its experimental strategy passes slideType and,
// if allowList is non-empty, its resolved patient identifier is in the
// list. Every admitted record lands in exactly one patient; records that
// fail either test are dropped. Group order is first-seen patient order.
func GroupByPatient(files []FileRecord, slideType SlideType, allowList []string) *PatientGroup {
	allowed := make(map[string]struct{}, len(allowList))
	for _, id := range allowList {
		allowed[id] = struct{}{}
	}

	group := &PatientGroup{}
	for _, rec := range files {
		if !slideType.Admits(rec.ExperimentalStrategy) {
			continue
		}
		if len(allowed) > 0 {
			if _, ok := allowed[rec.PatientID()]; !ok {
				continue
			}
		}
		group.Add(rec)
	}
	return group
}
