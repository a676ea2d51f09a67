package gdc

import "encoding/json"

// Filter is one node of the GDC structured boolean filter expression:
// an AND/OR combinator or a field-equality / field-membership predicate.
//
// Build filters with the And, Eq, and In constructors and serialize with
// JSON for the "filters" query parameter:
//
//	f := gdc.And(
//	    gdc.Eq("cases.project.project_id", "TCGA-BRCA"),
//	    gdc.Eq("data_type", "Slide Image"),
//	)
//	s, _ := f.JSON()
type Filter struct {
	Op      string `json:"op"`
	Content any    `json:"content"`
}

type fieldPredicate struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// And combines filters so that every one of them must match.
func And(filters ...Filter) Filter {
	return Filter{Op: "and", Content: filters}
}

// Eq matches records whose field equals value.
func Eq(field, value string) Filter {
	return Filter{Op: "=", Content: fieldPredicate{Field: field, Value: value}}
}

// In matches records whose field is one of values.
func In(field string, values []string) Filter {
	return Filter{Op: "in", Content: fieldPredicate{Field: field, Value: values}}
}

// JSON serializes the filter for the "filters" query parameter.
func (f Filter) JSON() (string, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
