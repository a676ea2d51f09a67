package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.Endpoint != "https://api.gdc.cancer.gov" {
		t.Errorf("Endpoint = %q", s.Endpoint)
	}
	if s.BaseDir != "tcga_data" {
		t.Errorf("BaseDir = %q", s.BaseDir)
	}
	if s.DownloadMaxAttempts != 3 {
		t.Errorf("DownloadMaxAttempts = %d, want 3", s.DownloadMaxAttempts)
	}
	if s.RetryMinWaitSeconds != 4 || s.RetryMaxWaitSeconds != 10 {
		t.Errorf("retry window = [%v, %v], want [4, 10]", s.RetryMinWaitSeconds, s.RetryMaxWaitSeconds)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Endpoint != DefaultSettings().Endpoint {
		t.Errorf("Endpoint = %q, want default", s.Endpoint)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	content := `{"base_dir": "/data/slides", "max_concurrent_downloads": 4}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.BaseDir != "/data/slides" {
		t.Errorf("BaseDir = %q, want /data/slides", s.BaseDir)
	}
	if s.MaxConcurrentDownloads != 4 {
		t.Errorf("MaxConcurrentDownloads = %d, want 4", s.MaxConcurrentDownloads)
	}
	// Unset fields keep defaults
	if s.Endpoint != DefaultSettings().Endpoint {
		t.Errorf("Endpoint = %q, want default", s.Endpoint)
	}
	if s.DownloadMaxAttempts != 3 {
		t.Errorf("DownloadMaxAttempts = %d, want 3", s.DownloadMaxAttempts)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on malformed JSON")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	s := DefaultSettings()
	s.BaseDir = "custom_dir"
	s.EnableJournal = false

	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.BaseDir != "custom_dir" {
		t.Errorf("BaseDir = %q, want custom_dir", loaded.BaseDir)
	}
	if loaded.EnableJournal {
		t.Error("EnableJournal should be false after round trip")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"empty endpoint", func(s *Settings) { s.Endpoint = "" }},
		{"empty base dir", func(s *Settings) { s.BaseDir = "" }},
		{"zero attempts", func(s *Settings) { s.DownloadMaxAttempts = 0 }},
		{"zero concurrency", func(s *Settings) { s.MaxConcurrentDownloads = 0 }},
		{"zero page size", func(s *Settings) { s.FilesPageSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			if err := s.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestPathHelpers(t *testing.T) {
	s := DefaultSettings()
	s.BaseDir = "base"

	if got := s.MetadataDir("TCGA-BRCA"); got != filepath.Join("base", "metadata", "TCGA-BRCA") {
		t.Errorf("MetadataDir = %q", got)
	}
	if got := s.SlidesDir("TCGA-BRCA"); got != filepath.Join("base", "slides", "TCGA-BRCA") {
		t.Errorf("SlidesDir = %q", got)
	}
	if got := s.ProjectSummaryPath("TCGA-BRCA"); got != filepath.Join("base", "TCGA-BRCA_summary.csv") {
		t.Errorf("ProjectSummaryPath = %q", got)
	}
	if got := s.AllProjectsSummaryPath(); got != filepath.Join("base", "all_tcga_projects_summary.csv") {
		t.Errorf("AllProjectsSummaryPath = %q", got)
	}
}
