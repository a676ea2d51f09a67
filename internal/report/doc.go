// Package report computes and writes the tabular summaries.
//
// # Project Summaries
//
// SummarizeProject aggregates a grouped manifest into counts, sizes, and
// distinct formats:
//
//	summary := report.SummarizeProject("TCGA-BRCA", group)
//	fmt.Printf("%d patients, %.2f MB\n", summary.Patients, summary.SizeMB())
//
// # CSV Reports
//
// Two CSV artifacts are written per run, both full overwrites:
//
//	{base}/{project}_summary.csv          // totals section + per-patient rows
//	{base}/all_tcga_projects_summary.csv  // one row per processed project
//
// Output is deterministic: formats are sorted, per-patient rows are
// sorted by patient identifier, and sizes are fixed to two decimals.
package report
