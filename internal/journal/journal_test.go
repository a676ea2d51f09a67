package journal

import (
	"path/filepath"
	"testing"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "nested", "journal.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpenCreatesParentDirs(t *testing.T) {
	openTestJournal(t)
}

func TestBeginAndFinishRun(t *testing.T) {
	j := openTestJournal(t)

	runID, err := j.BeginRun("tissue", []string{"TCGA-BRCA", "TCGA-LUAD"})
	if err != nil {
		t.Fatalf("BeginRun() error = %v", err)
	}
	if runID == "" {
		t.Fatal("BeginRun() returned an empty run id")
	}

	if err := j.FinishRun(runID, "completed"); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}
}

func TestRecordFileAndCountOutcomes(t *testing.T) {
	j := openTestJournal(t)

	runID, err := j.BeginRun("both", []string{"TCGA-BRCA"})
	if err != nil {
		t.Fatal(err)
	}

	entries := []FileEntry{
		{ProjectID: "TCGA-BRCA", PatientID: "p1", FileID: "f1", FileName: "a.svs", Outcome: "downloaded", Attempts: 1, Bytes: 100},
		{ProjectID: "TCGA-BRCA", PatientID: "p1", FileID: "f2", FileName: "b.svs", Outcome: "skipped"},
		{ProjectID: "TCGA-BRCA", PatientID: "p2", FileID: "f3", FileName: "c.svs", Outcome: "downloaded", Attempts: 2, Bytes: 200},
		{ProjectID: "TCGA-BRCA", PatientID: "p2", FileID: "f4", FileName: "d.svs", Outcome: "failed", Attempts: 3, Error: "HTTP 503"},
	}
	for _, e := range entries {
		if err := j.RecordFile(runID, e); err != nil {
			t.Fatalf("RecordFile(%s) error = %v", e.FileID, err)
		}
	}

	counts, err := j.CountOutcomes(runID)
	if err != nil {
		t.Fatalf("CountOutcomes() error = %v", err)
	}
	if counts["downloaded"] != 2 || counts["skipped"] != 1 || counts["failed"] != 1 {
		t.Errorf("counts = %v, want downloaded:2 skipped:1 failed:1", counts)
	}
}

func TestCountOutcomes_ScopedToRun(t *testing.T) {
	j := openTestJournal(t)

	runA, _ := j.BeginRun("both", []string{"TCGA-BRCA"})
	runB, _ := j.BeginRun("both", []string{"TCGA-LUAD"})

	if err := j.RecordFile(runA, FileEntry{ProjectID: "TCGA-BRCA", PatientID: "p1", FileID: "f1", FileName: "a.svs", Outcome: "downloaded"}); err != nil {
		t.Fatal(err)
	}

	counts, err := j.CountOutcomes(runB)
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 0 {
		t.Errorf("counts for an unrelated run = %v, want empty", counts)
	}
}

func TestClose_NilSafe(t *testing.T) {
	var j *Journal
	if err := j.Close(); err != nil {
		t.Errorf("Close() on nil = %v, want nil", err)
	}
}
