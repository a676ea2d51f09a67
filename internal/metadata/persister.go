// Package metadata persists per-patient file-record collections as JSON
// documents under the base directory:
//
//	{base}/metadata/{project}/{patient}.json
//
// Saves are idempotent full overwrites; there is no merging with previous
// runs.
package metadata

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/histolab/gdc-slide-downloader/internal/ioutils"
	"github.com/histolab/gdc-slide-downloader/internal/model"
)

// Persister writes patient metadata documents under a base directory.
type Persister struct {
	baseDir string
}

// NewPersister creates a persister rooted at the given base directory.
func NewPersister(baseDir string) *Persister {
	return &Persister{baseDir: baseDir}
}

// Path returns the metadata document path for a project/patient pair.
func (p *Persister) Path(projectID, patientID string) string {
	name := ioutils.SanitizeFileName(patientID) + ".json"
	return filepath.Join(p.baseDir, "metadata", projectID, name)
}

// Save serializes the record collection for one patient, overwriting any
// existing document. Parent directories are created as needed.
func (p *Persister) Save(projectID, patientID string, records []model.FileRecord) error {
	path := p.Path(projectID, patientID)
	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("create metadata dir: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata for %s: %w", patientID, err)
	}

	return ioutils.WriteFile(path, data)
}
