package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Settings holds all configuration options.
type Settings struct {
	// Catalog settings
	Endpoint              string `json:"endpoint"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"`
	ProjectsPageSize      int    `json:"projects_page_size"`
	FilesPageSize         int    `json:"files_page_size"`

	// Output settings
	BaseDir string `json:"base_dir"`

	// Download settings
	MaxConcurrentDownloads int     `json:"max_concurrent_downloads"`
	DownloadMaxAttempts    int     `json:"download_max_attempts"`
	RetryMultiplierSeconds float64 `json:"retry_multiplier_seconds"`
	RetryMinWaitSeconds    float64 `json:"retry_min_wait_seconds"`
	RetryMaxWaitSeconds    float64 `json:"retry_max_wait_seconds"`

	// Journal settings
	EnableJournal bool `json:"enable_journal"`
}

// DefaultSettings returns settings with default values.
//
// The retry defaults reproduce the reference schedule: three attempts
// total with exponential waits clamped between 4 and 10 seconds.
func DefaultSettings() *Settings {
	return &Settings{
		Endpoint:              "https://api.gdc.cancer.gov",
		RequestTimeoutSeconds: 30,
		ProjectsPageSize:      1000,
		FilesPageSize:         10000,

		BaseDir: "tcga_data",

		MaxConcurrentDownloads: 1,
		DownloadMaxAttempts:    3,
		RetryMultiplierSeconds: 1,
		RetryMinWaitSeconds:    4,
		RetryMaxWaitSeconds:    10,

		EnableJournal: true,
	}
}

// Load reads settings from a JSON file.
//
// Missing file is not an error; defaults are returned. Fields absent from
// the file keep their default values.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks settings for values the pipeline cannot run with.
func (s *Settings) Validate() error {
	if s.Endpoint == "" {
		return fmt.Errorf("endpoint must not be empty")
	}
	if s.BaseDir == "" {
		return fmt.Errorf("base_dir must not be empty")
	}
	if s.DownloadMaxAttempts < 1 {
		return fmt.Errorf("download_max_attempts must be at least 1, got %d", s.DownloadMaxAttempts)
	}
	if s.MaxConcurrentDownloads < 1 {
		return fmt.Errorf("max_concurrent_downloads must be at least 1, got %d", s.MaxConcurrentDownloads)
	}
	if s.FilesPageSize < 1 || s.ProjectsPageSize < 1 {
		return fmt.Errorf("page sizes must be positive")
	}
	return nil
}

// MetadataDir returns the per-project metadata directory.
func (s *Settings) MetadataDir(projectID string) string {
	return filepath.Join(s.BaseDir, "metadata", projectID)
}

// SlidesDir returns the per-project slide directory.
func (s *Settings) SlidesDir(projectID string) string {
	return filepath.Join(s.BaseDir, "slides", projectID)
}

// ProjectSummaryPath returns the per-project summary CSV path.
func (s *Settings) ProjectSummaryPath(projectID string) string {
	return filepath.Join(s.BaseDir, projectID+"_summary.csv")
}

// AllProjectsSummaryPath returns the cross-project summary CSV path.
func (s *Settings) AllProjectsSummaryPath() string {
	return filepath.Join(s.BaseDir, "all_tcga_projects_summary.csv")
}

// JournalPath returns the sqlite run-journal path.
func (s *Settings) JournalPath() string {
	return filepath.Join(s.BaseDir, "journal.db")
}

// LogPath returns the plain-text event log path.
func (s *Settings) LogPath() string {
	return filepath.Join(s.BaseDir, "download.log")
}

// LockPath returns the path of the lock file guarding the base directory.
func (s *Settings) LockPath() string {
	return filepath.Join(s.BaseDir, ".gdc-dl.lock")
}
