package download

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/histolab/gdc-slide-downloader/internal/gdc"
	xhttp "github.com/histolab/gdc-slide-downloader/internal/http"
	"github.com/histolab/gdc-slide-downloader/internal/ioutils"
	"github.com/histolab/gdc-slide-downloader/internal/model"
)

// Outcome is the result class of one EnsureLocal call.
type Outcome string

const (
	// OutcomeSkipped means the file was already present with a matching
	// checksum; no network call was made.
	OutcomeSkipped Outcome = "skipped"

	// OutcomeDownloaded means the file was fetched (or re-fetched) and
	// written to disk.
	OutcomeDownloaded Outcome = "downloaded"

	// OutcomeFailed means the download did not succeed after retries.
	OutcomeFailed Outcome = "failed"
)

// Result describes what EnsureLocal did for one file.
type Result struct {
	Outcome Outcome

	// Attempts is the number of download attempts made. Zero when the
	// file was skipped.
	Attempts int

	// Bytes is the number of bytes written for a download. Zero when
	// skipped or failed.
	Bytes int64

	// Mismatch is true when an existing local file had a stale checksum
	// and triggered the re-download.
	Mismatch bool
}

// Engine ensures local byte-identical copies of remote files.
//
// For each file the engine checks the destination path, verifies the MD5
// checksum of any existing copy, and only fetches from the remote data
// endpoint when the copy is absent or stale. Transient network failures
// are retried per the configured RetryPolicy; filesystem failures
// propagate immediately.
type Engine struct {
	client  *xhttp.Client
	catalog *gdc.Client
	retry   RetryPolicy
}

// NewEngine creates a download engine.
func NewEngine(client *xhttp.Client, catalog *gdc.Client, retry RetryPolicy) *Engine {
	return &Engine{client: client, catalog: catalog, retry: retry}
}

// EnsureLocal makes sure destRoot/{patientID}/{fileName} holds a copy of
// the record's content matching its reference checksum.
//
// An existing file with a matching checksum is left alone and reported as
// skipped with zero network calls. A mismatched file is overwritten in
// place. The returned error is non-nil only when the file could not be
// made local; sibling downloads are unaffected.
func (e *Engine) EnsureLocal(ctx context.Context, patientID string, rec model.FileRecord, destRoot string, onProgress func(written, total int64)) (Result, error) {
	patientDir := filepath.Join(destRoot, ioutils.SanitizeFileName(patientID))
	target := filepath.Join(patientDir, ioutils.SanitizeFileName(rec.FileName))

	mismatch := false
	if _, err := os.Stat(target); err == nil {
		sum, err := fileMD5(target)
		if err != nil {
			return Result{Outcome: OutcomeFailed}, fmt.Errorf("checksum %s: %w", target, err)
		}
		if sum == rec.MD5Sum {
			return Result{Outcome: OutcomeSkipped}, nil
		}
		mismatch = true
	}

	if err := ioutils.EnsureDir(patientDir); err != nil {
		return Result{Outcome: OutcomeFailed, Mismatch: mismatch}, fmt.Errorf("create %s: %w", patientDir, err)
	}

	var written int64
	attempts, err := e.retry.Do(ctx, func() error {
		n, err := e.client.DownloadFile(ctx, e.catalog.DataURL(rec.FileID), target, onProgress)
		written = n
		return err
	})
	if err != nil {
		return Result{Outcome: OutcomeFailed, Attempts: attempts, Mismatch: mismatch},
			fmt.Errorf("download %s after %d attempt(s): %w", rec.FileName, attempts, err)
	}

	return Result{Outcome: OutcomeDownloaded, Attempts: attempts, Bytes: written, Mismatch: mismatch}, nil
}

// fileMD5 computes the hex MD5 checksum of a file, streaming its content.
func fileMD5(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
