package download

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/histolab/gdc-slide-downloader/internal/config"
	"github.com/histolab/gdc-slide-downloader/internal/gdc"
	xhttp "github.com/histolab/gdc-slide-downloader/internal/http"
	"github.com/histolab/gdc-slide-downloader/internal/ioutils"
	"github.com/histolab/gdc-slide-downloader/internal/journal"
	"github.com/histolab/gdc-slide-downloader/internal/metadata"
	"github.com/histolab/gdc-slide-downloader/internal/model"
	"github.com/histolab/gdc-slide-downloader/internal/report"
)

// Options selects what a run processes.
type Options struct {
	// SlideType filters experimental strategies and, when SlideTypeNone,
	// switches downloading off entirely.
	SlideType model.SlideType

	// Projects is the raw project selection: a comma-separated list of
	// project identifiers, or "all" (also the empty default) for every
	// discovered project.
	Projects string

	// AllowList restricts grouping to these patient identifiers.
	// Empty means no patient filtering.
	AllowList []string

	// DryRun fetches, groups, persists metadata, and reports, but
	// downloads nothing.
	DryRun bool

	// Journal, when non-nil, records per-run and per-file outcomes.
	Journal *journal.Journal
}

// Manager coordinates the per-project pipeline: manifest fetch, patient
// grouping, metadata persistence, checksummed downloads, and summary
// reports.
//
// Projects and patients are processed sequentially; files within one
// patient run under a bounded errgroup pool. A project failure is logged
// and skipped, never aborting the remaining projects, and the aggregate
// summary is always written from whatever projects completed.
type Manager struct {
	settings  *config.Settings
	opts      Options
	catalog   *gdc.Client
	engine    *Engine
	persister *metadata.Persister

	projects  []string
	summaries []model.ProjectSummary
	runID     string

	totalFiles    int32
	doneFiles     int32
	skippedFiles  int32
	failedFiles   int32
	totalBytes    int64
	receivedBytes int64

	onProgress func(ProgressEvent)
	mu         sync.RWMutex
}

// NewManager creates a new pipeline Manager.
func NewManager(settings *config.Settings, opts Options, onProgress func(ProgressEvent)) *Manager {
	client := xhttp.NewClient(time.Duration(settings.RequestTimeoutSeconds) * time.Second)
	catalog := gdc.NewClient(settings.Endpoint, client, settings.ProjectsPageSize, settings.FilesPageSize)

	retry := RetryPolicy{
		MaxAttempts: settings.DownloadMaxAttempts,
		Multiplier:  secondsToDuration(settings.RetryMultiplierSeconds),
		MinDelay:    secondsToDuration(settings.RetryMinWaitSeconds),
		MaxDelay:    secondsToDuration(settings.RetryMaxWaitSeconds),
		Retryable:   xhttp.IsTransient,
	}

	return &Manager{
		settings:   settings,
		opts:       opts,
		catalog:    catalog,
		engine:     NewEngine(client, catalog, retry),
		persister:  metadata.NewPersister(settings.BaseDir),
		onProgress: onProgress,
	}
}

// Initialize discovers the available projects and resolves the project
// selection against them.
//
// An unknown project identifier in the selection is an argument error and
// fails the whole run before any per-project work starts.
func (m *Manager) Initialize(ctx context.Context) error {
	m.progress(ProgressEvent{Message: "Fetching all TCGA projects with slide images", Level: LevelVerbose})

	available, err := m.catalog.ListProjects(ctx)
	if err != nil {
		return err
	}
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Found %d TCGA projects with slide images: %s", len(available), strings.Join(available, ", ")),
		Level:   LevelInfo,
	})

	selection := strings.TrimSpace(m.opts.Projects)
	if selection == "" || strings.EqualFold(selection, "all") {
		m.projects = available
	} else {
		known := make(map[string]struct{}, len(available))
		for _, id := range available {
			known[id] = struct{}{}
		}

		var invalid []string
		for _, part := range strings.Split(selection, ",") {
			id := strings.TrimSpace(part)
			if id == "" {
				continue
			}
			if _, ok := known[id]; !ok {
				invalid = append(invalid, id)
				continue
			}
			m.projects = append(m.projects, id)
		}
		if len(invalid) > 0 {
			return fmt.Errorf("invalid project(s): %s. Available projects: %s",
				strings.Join(invalid, ", "), strings.Join(available, ", "))
		}
	}

	if m.opts.Journal != nil {
		runID, err := m.opts.Journal.BeginRun(string(m.opts.SlideType), m.projects)
		if err != nil {
			return err
		}
		m.runID = runID
	}

	return nil
}

// Projects returns the resolved project selection.
func (m *Manager) Projects() []string {
	return m.projects
}

// Summaries returns the summaries of the projects that completed.
func (m *Manager) Summaries() []model.ProjectSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.summaries
}

// GetProgress returns the current download progress.
func (m *Manager) GetProgress() (received, total int64, filesDone, filesTotal int32) {
	return atomic.LoadInt64(&m.receivedBytes), atomic.LoadInt64(&m.totalBytes),
		atomic.LoadInt32(&m.doneFiles), atomic.LoadInt32(&m.totalFiles)
}

// Counts returns the per-outcome file counts of the run so far.
func (m *Manager) Counts() (skipped, failed int32) {
	return atomic.LoadInt32(&m.skippedFiles), atomic.LoadInt32(&m.failedFiles)
}

// Run processes every selected project and writes the aggregate
// cross-project summary.
//
// Per-project failures are reported and skipped. The aggregate summary is
// written even when some projects failed entirely; it covers only the
// projects that produced a summary.
func (m *Manager) Run(ctx context.Context) error {
	for _, projectID := range m.projects {
		if ctx.Err() != nil {
			m.finishJournal("cancelled")
			return ctx.Err()
		}
		if err := m.processProject(ctx, projectID); err != nil {
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Failed to process %s: %v", projectID, err),
				Level:   LevelError,
			})
		}
	}

	if err := report.WriteAllProjectsCSV(m.settings.AllProjectsSummaryPath(), m.Summaries()); err != nil {
		m.finishJournal("failed")
		return fmt.Errorf("write aggregate summary: %w", err)
	}
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Generated all projects summary CSV: %s", m.settings.AllProjectsSummaryPath()),
		Level:   LevelSuccess,
	})

	m.finishJournal("completed")
	return nil
}

func (m *Manager) processProject(ctx context.Context, projectID string) error {
	m.progress(ProgressEvent{Message: fmt.Sprintf("Processing %s...", projectID), Level: LevelInfo})

	manifest, err := m.catalog.GetManifest(ctx, projectID)
	if err != nil {
		return err
	}
	if manifest.Truncated() {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Manifest for %s truncated by the page-size cap: %d of %d records returned",
				projectID, len(manifest.Records), manifest.Total),
			Level: LevelWarning,
		})
	}

	groupType := m.opts.SlideType
	if groupType == model.SlideTypeNone {
		groupType = model.SlideTypeBoth
	}
	group := model.GroupByPatient(manifest.Records, groupType, m.opts.AllowList)

	if n := group.UnknownFallbacks(); n > 0 {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("%d record(s) in %s resolved to the %q patient identifier and were merged", n, projectID, model.UnknownPatient),
			Level:   LevelWarning,
		})
	}
	if group.Len() == 0 {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("No matching slides found for %s with the current filters", projectID),
			Level:   LevelWarning,
		})
	}

	download := m.opts.SlideType.Download() && !m.opts.DryRun
	if download {
		atomic.AddInt32(&m.totalFiles, int32(group.TotalRecords()))
		var bytes int64
		for _, patientID := range group.Patients() {
			for _, rec := range group.Records(patientID) {
				bytes += rec.Size
			}
		}
		atomic.AddInt64(&m.totalBytes, bytes)
	}

	if err := ioutils.EnsureDir(m.settings.MetadataDir(projectID)); err != nil {
		return err
	}

	for _, patientID := range group.Patients() {
		records := group.Records(patientID)

		if err := m.persister.Save(projectID, patientID, records); err != nil {
			return err
		}
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Saved metadata for %s, patient %s (%d slides)", projectID, patientID, len(records)),
			Level:   LevelVerbose,
		})

		if download {
			if err := m.downloadPatient(ctx, projectID, patientID, records); err != nil {
				return err
			}
		}
	}

	summary := report.SummarizeProject(projectID, group)
	if err := report.WriteProjectCSV(m.settings.ProjectSummaryPath(projectID), summary); err != nil {
		return err
	}

	m.mu.Lock()
	m.summaries = append(m.summaries, summary)
	m.mu.Unlock()

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Summary for %s: %d patients, %d slides (%d tissue, %d diagnostic), %.2f MB, formats: %s",
			projectID, summary.Patients, summary.Slides, summary.TissueSlides,
			summary.DiagnosticSlides, summary.SizeMB(), strings.Join(summary.Formats, ", ")),
		Level: LevelInfo,
	})

	return nil
}

// downloadPatient ensures local copies of one patient's files under a
// bounded worker pool. Per-file failures are reported and do not abort
// sibling downloads.
func (m *Manager) downloadPatient(ctx context.Context, projectID, patientID string, records []model.FileRecord) error {
	destRoot := m.settings.SlidesDir(projectID)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.MaxConcurrentDownloads)

	for _, rec := range records {
		g.Go(func() error {
			res, err := m.engine.EnsureLocal(ctx, patientID, rec, destRoot, nil)
			m.recordFile(projectID, patientID, rec, res, err)

			if err != nil {
				atomic.AddInt32(&m.failedFiles, 1)
				m.progress(ProgressEvent{
					Message: fmt.Sprintf("Failed to download %s for %s, patient %s: %v", rec.FileName, projectID, patientID, err),
					Level:   LevelError,
				})
				return nil // keep sibling downloads going
			}

			atomic.AddInt32(&m.doneFiles, 1)
			atomic.AddInt64(&m.receivedBytes, res.Bytes)

			switch {
			case res.Outcome == OutcomeSkipped:
				atomic.AddInt32(&m.skippedFiles, 1)
				// Skips still count as ensured bytes for progress.
				atomic.AddInt64(&m.receivedBytes, rec.Size)
				m.progress(ProgressEvent{
					Message: fmt.Sprintf("Skipping %s for %s, patient %s, already exists with matching MD5 checksum", rec.FileName, projectID, patientID),
					Level:   LevelVerbose,
				})
			case res.Mismatch:
				m.progress(ProgressEvent{
					Message: fmt.Sprintf("Checksum mismatch for %s for %s, patient %s, re-downloaded", rec.FileName, projectID, patientID),
					Level:   LevelWarning,
				})
			default:
				m.progress(ProgressEvent{
					Message: fmt.Sprintf("Downloaded %s for %s, patient %s", rec.FileName, projectID, patientID),
					Level:   LevelVerbose,
				})
			}
			return nil
		})
	}

	return g.Wait()
}

func (m *Manager) recordFile(projectID, patientID string, rec model.FileRecord, res Result, err error) {
	if m.opts.Journal == nil || m.runID == "" {
		return
	}
	entry := journal.FileEntry{
		ProjectID: projectID,
		PatientID: patientID,
		FileID:    rec.FileID,
		FileName:  rec.FileName,
		Outcome:   string(res.Outcome),
		Attempts:  res.Attempts,
		Bytes:     res.Bytes,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if jerr := m.opts.Journal.RecordFile(m.runID, entry); jerr != nil {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Journal write failed: %v", jerr),
			Level:   LevelVerbose,
		})
	}
}

func (m *Manager) finishJournal(status string) {
	if m.opts.Journal == nil || m.runID == "" {
		return
	}
	if err := m.opts.Journal.FinishRun(m.runID, status); err != nil {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Journal write failed: %v", err),
			Level:   LevelVerbose,
		})
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
