package download

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/histolab/gdc-slide-downloader/internal/config"
	"github.com/histolab/gdc-slide-downloader/internal/model"
)

// fakeGDC serves a minimal catalog: one project listing, per-project file
// manifests, and the data endpoint backing them.
type fakeGDC struct {
	projects []string
	// files maps project id to file definitions
	files map[string][]fakeFile
	// failManifest makes the /files query for a project answer 404
	failManifest map[string]bool
}

type fakeFile struct {
	id       string
	name     string
	caseID   string
	strategy string
	content  string
}

func (f fakeFile) md5() string {
	sum := md5.Sum([]byte(f.content))
	return hex.EncodeToString(sum[:])
}

func (g *fakeGDC) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/projects":
			hits := make([]string, 0, len(g.projects))
			for _, p := range g.projects {
				hits = append(hits, fmt.Sprintf(`{"project_id": %q}`, p))
			}
			fmt.Fprintf(w, `{"data": {"hits": [%s], "pagination": {"count": %d, "total": %d}}}`,
				strings.Join(hits, ","), len(g.projects), len(g.projects))

		case r.URL.Path == "/files":
			filters := r.URL.Query().Get("filters")
			var project string
			for p := range g.files {
				if strings.Contains(filters, p) {
					project = p
					break
				}
			}
			if g.failManifest[project] {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			hits := make([]string, 0, len(g.files[project]))
			for _, f := range g.files[project] {
				hits = append(hits, fmt.Sprintf(
					`{"file_id": %q, "file_name": %q, "md5sum": %q, "case_id": %q, "file_size": %d, "data_format": "SVS", "experimental_strategy": %q, "cases": []}`,
					f.id, f.name, f.md5(), f.caseID, len(f.content), f.strategy))
			}
			fmt.Fprintf(w, `{"data": {"hits": [%s], "pagination": {"count": %d, "total": %d}}}`,
				strings.Join(hits, ","), len(hits), len(hits))

		case strings.HasPrefix(r.URL.Path, "/data/"):
			id := strings.TrimPrefix(r.URL.Path, "/data/")
			for _, files := range g.files {
				for _, f := range files {
					if f.id == id {
						w.Write([]byte(f.content))
						return
					}
				}
			}
			http.Error(w, "no such file", http.StatusNotFound)

		default:
			t.Errorf("unexpected request path %q", r.URL.Path)
			http.NotFound(w, r)
		}
	}
}

func testSettings(t *testing.T, endpoint string) *config.Settings {
	s := config.DefaultSettings()
	s.Endpoint = endpoint
	s.BaseDir = t.TempDir()
	s.MaxConcurrentDownloads = 2
	s.RetryMultiplierSeconds = 0.001
	s.RetryMinWaitSeconds = 0.001
	s.RetryMaxWaitSeconds = 0.005
	return s
}

func TestManager_FullRun(t *testing.T) {
	catalog := &fakeGDC{
		projects: []string{"TCGA-BRCA", "TCGA-LUAD"},
		files: map[string][]fakeFile{
			"TCGA-BRCA": {
				{id: "f1", name: "a.svs", caseID: "p1", strategy: model.StrategyTissueSlide, content: "tissue a"},
				{id: "f2", name: "b.svs", caseID: "p1", strategy: model.StrategyDiagnosticSlide, content: "diag b"},
				{id: "f3", name: "c.svs", caseID: "p2", strategy: model.StrategyTissueSlide, content: "tissue c"},
			},
			"TCGA-LUAD": {
				{id: "f4", name: "d.svs", caseID: "p3", strategy: model.StrategyTissueSlide, content: "tissue d"},
			},
		},
	}
	server := httptest.NewServer(catalog.handler(t))
	defer server.Close()

	settings := testSettings(t, server.URL)

	var mu sync.Mutex
	var events []ProgressEvent
	mgr := NewManager(settings, Options{SlideType: model.SlideTypeBoth, Projects: "all"}, func(e ProgressEvent) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})

	ctx := context.Background()
	if err := mgr.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if got := mgr.Projects(); len(got) != 2 {
		t.Fatalf("Projects() = %v, want both", got)
	}
	if err := mgr.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Slides landed under slides/{project}/{patient}/
	for _, path := range []string{
		filepath.Join(settings.SlidesDir("TCGA-BRCA"), "p1", "a.svs"),
		filepath.Join(settings.SlidesDir("TCGA-BRCA"), "p1", "b.svs"),
		filepath.Join(settings.SlidesDir("TCGA-BRCA"), "p2", "c.svs"),
		filepath.Join(settings.SlidesDir("TCGA-LUAD"), "p3", "d.svs"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing downloaded file %s: %v", path, err)
		}
	}

	// Metadata documents per patient
	for _, path := range []string{
		filepath.Join(settings.MetadataDir("TCGA-BRCA"), "p1.json"),
		filepath.Join(settings.MetadataDir("TCGA-BRCA"), "p2.json"),
		filepath.Join(settings.MetadataDir("TCGA-LUAD"), "p3.json"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing metadata document %s: %v", path, err)
		}
	}

	// Per-project and aggregate summary CSVs
	for _, path := range []string{
		settings.ProjectSummaryPath("TCGA-BRCA"),
		settings.ProjectSummaryPath("TCGA-LUAD"),
		settings.AllProjectsSummaryPath(),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing summary CSV %s: %v", path, err)
		}
	}

	if got := len(mgr.Summaries()); got != 2 {
		t.Errorf("Summaries() count = %d, want 2", got)
	}

	_, _, filesDone, filesTotal := mgr.GetProgress()
	if filesDone != 4 || filesTotal != 4 {
		t.Errorf("progress files = %d/%d, want 4/4", filesDone, filesTotal)
	}
	if skipped, failed := mgr.Counts(); skipped != 0 || failed != 0 {
		t.Errorf("Counts() = %d skipped, %d failed, want 0 and 0", skipped, failed)
	}
	if len(events) == 0 {
		t.Error("run should emit progress events")
	}
}

func TestManager_SecondRunSkipsExistingFiles(t *testing.T) {
	catalog := &fakeGDC{
		projects: []string{"TCGA-BRCA"},
		files: map[string][]fakeFile{
			"TCGA-BRCA": {
				{id: "f1", name: "a.svs", caseID: "p1", strategy: model.StrategyTissueSlide, content: "tissue a"},
			},
		},
	}
	server := httptest.NewServer(catalog.handler(t))
	defer server.Close()

	settings := testSettings(t, server.URL)
	opts := Options{SlideType: model.SlideTypeBoth, Projects: "all"}
	ctx := context.Background()

	first := NewManager(settings, opts, nil)
	if err := first.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if err := first.Run(ctx); err != nil {
		t.Fatal(err)
	}

	second := NewManager(settings, opts, nil)
	if err := second.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if err := second.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if skipped, failed := second.Counts(); skipped != 1 || failed != 0 {
		t.Errorf("second run Counts() = %d skipped, %d failed, want 1 and 0", skipped, failed)
	}
}

func TestManager_ProjectFailureIsIsolated(t *testing.T) {
	catalog := &fakeGDC{
		projects: []string{"TCGA-BAD", "TCGA-GOOD"},
		files: map[string][]fakeFile{
			"TCGA-BAD": {},
			"TCGA-GOOD": {
				{id: "f1", name: "a.svs", caseID: "p1", strategy: model.StrategyTissueSlide, content: "tissue a"},
			},
		},
		failManifest: map[string]bool{"TCGA-BAD": true},
	}
	server := httptest.NewServer(catalog.handler(t))
	defer server.Close()

	settings := testSettings(t, server.URL)

	var errorEvents []string
	mgr := NewManager(settings, Options{SlideType: model.SlideTypeBoth, Projects: "all"}, func(e ProgressEvent) {
		if e.Level == LevelError {
			errorEvents = append(errorEvents, e.Message)
		}
	})

	ctx := context.Background()
	if err := mgr.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Run(ctx); err != nil {
		t.Fatalf("Run() should not fail when one project fails: %v", err)
	}

	if len(errorEvents) != 1 || !strings.Contains(errorEvents[0], "TCGA-BAD") {
		t.Errorf("error events = %v, want one naming TCGA-BAD", errorEvents)
	}

	summaries := mgr.Summaries()
	if len(summaries) != 1 || summaries[0].ProjectID != "TCGA-GOOD" {
		t.Errorf("Summaries() = %v, want only TCGA-GOOD", summaries)
	}

	// Aggregate CSV is still written
	if _, err := os.Stat(settings.AllProjectsSummaryPath()); err != nil {
		t.Errorf("aggregate summary missing: %v", err)
	}
}

func TestManager_InvalidProjectSelection(t *testing.T) {
	catalog := &fakeGDC{projects: []string{"TCGA-BRCA"}}
	server := httptest.NewServer(catalog.handler(t))
	defer server.Close()

	settings := testSettings(t, server.URL)
	mgr := NewManager(settings, Options{SlideType: model.SlideTypeBoth, Projects: "TCGA-NOPE"}, nil)

	err := mgr.Initialize(context.Background())
	if err == nil {
		t.Fatal("Initialize() should fail for an unknown project")
	}
	if !strings.Contains(err.Error(), "TCGA-NOPE") || !strings.Contains(err.Error(), "TCGA-BRCA") {
		t.Errorf("error should name the invalid and available projects, got %v", err)
	}
}

func TestManager_DryRunDownloadsNothing(t *testing.T) {
	catalog := &fakeGDC{
		projects: []string{"TCGA-BRCA"},
		files: map[string][]fakeFile{
			"TCGA-BRCA": {
				{id: "f1", name: "a.svs", caseID: "p1", strategy: model.StrategyTissueSlide, content: "tissue a"},
			},
		},
	}
	server := httptest.NewServer(catalog.handler(t))
	defer server.Close()

	settings := testSettings(t, server.URL)
	mgr := NewManager(settings, Options{SlideType: model.SlideTypeBoth, Projects: "all", DryRun: true}, nil)

	ctx := context.Background()
	if err := mgr.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(settings.SlidesDir("TCGA-BRCA")); !os.IsNotExist(err) {
		t.Error("dry run should not create the slides directory")
	}
	// Metadata and reports are still produced
	if _, err := os.Stat(filepath.Join(settings.MetadataDir("TCGA-BRCA"), "p1.json")); err != nil {
		t.Errorf("dry run should persist metadata: %v", err)
	}
	if _, err := os.Stat(settings.ProjectSummaryPath("TCGA-BRCA")); err != nil {
		t.Errorf("dry run should write summaries: %v", err)
	}
}

func TestManager_MetadataOnlySlideType(t *testing.T) {
	catalog := &fakeGDC{
		projects: []string{"TCGA-BRCA"},
		files: map[string][]fakeFile{
			"TCGA-BRCA": {
				{id: "f1", name: "a.svs", caseID: "p1", strategy: model.StrategyTissueSlide, content: "tissue a"},
				{id: "f2", name: "b.svs", caseID: "p1", strategy: model.StrategyDiagnosticSlide, content: "diag b"},
			},
		},
	}
	server := httptest.NewServer(catalog.handler(t))
	defer server.Close()

	settings := testSettings(t, server.URL)
	mgr := NewManager(settings, Options{SlideType: model.SlideTypeNone, Projects: "all"}, nil)

	ctx := context.Background()
	if err := mgr.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(settings.SlidesDir("TCGA-BRCA")); !os.IsNotExist(err) {
		t.Error("slide type none should not download")
	}
	// With downloads off the summary still covers every strategy
	summaries := mgr.Summaries()
	if len(summaries) != 1 || summaries[0].Slides != 2 {
		t.Errorf("Summaries() = %+v, want one summary covering both records", summaries)
	}
}

func TestManager_PatientAllowList(t *testing.T) {
	catalog := &fakeGDC{
		projects: []string{"TCGA-BRCA"},
		files: map[string][]fakeFile{
			"TCGA-BRCA": {
				{id: "f1", name: "a.svs", caseID: "p1", strategy: model.StrategyTissueSlide, content: "tissue a"},
				{id: "f2", name: "b.svs", caseID: "p2", strategy: model.StrategyTissueSlide, content: "tissue b"},
			},
		},
	}
	server := httptest.NewServer(catalog.handler(t))
	defer server.Close()

	settings := testSettings(t, server.URL)
	mgr := NewManager(settings, Options{
		SlideType: model.SlideTypeBoth,
		Projects:  "all",
		AllowList: []string{"p2"},
	}, nil)

	ctx := context.Background()
	if err := mgr.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(settings.SlidesDir("TCGA-BRCA"), "p2", "b.svs")); err != nil {
		t.Errorf("allow-listed patient file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(settings.SlidesDir("TCGA-BRCA"), "p1")); !os.IsNotExist(err) {
		t.Error("filtered-out patient should have no slide directory")
	}

	summaries := mgr.Summaries()
	if len(summaries) != 1 || summaries[0].Patients != 1 {
		t.Errorf("Summaries() = %+v, want one patient", summaries)
	}
}
