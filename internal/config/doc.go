// Package config provides configuration management for gdc-slide-downloader.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Derived output paths under the base directory
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Queries https://api.gdc.cancer.gov
//	// Writes under ./tcga_data
//	// Sequential downloads, three attempts with 4-10s backoff
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Output Layout
//
// Derived paths keep every run artifact under one base directory:
//
//	settings.MetadataDir("TCGA-BRCA")         // {base}/metadata/TCGA-BRCA
//	settings.SlidesDir("TCGA-BRCA")           // {base}/slides/TCGA-BRCA
//	settings.ProjectSummaryPath("TCGA-BRCA")  // {base}/TCGA-BRCA_summary.csv
//	settings.AllProjectsSummaryPath()         // {base}/all_tcga_projects_summary.csv
package config
