// Package download fetches slide files and orchestrates whole runs.
//
// # Engine
//
// Engine.EnsureLocal is the per-file primitive: it skips files that
// already exist with a matching MD5 checksum, re-downloads on mismatch,
// and retries transient failures with exponential backoff:
//
//	res, err := engine.EnsureLocal(ctx, patientID, rec, destRoot, nil)
//	if res.Outcome == download.OutcomeSkipped { ... }
//
// # Manager
//
// Manager drives the whole pipeline across projects: manifest fetch,
// patient grouping, metadata persistence, bounded-concurrency downloads,
// and CSV summaries. Progress is surfaced through a ProgressEvent
// callback so the console CLI and the TUI can render it their own way:
//
//	mgr := download.NewManager(settings, opts, func(e download.ProgressEvent) {
//		fmt.Println(e.Message)
//	})
//	if err := mgr.Initialize(ctx); err != nil { ... }
//	if err := mgr.Run(ctx); err != nil { ... }
package download
