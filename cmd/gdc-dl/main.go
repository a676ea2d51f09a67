package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofrs/flock"

	"github.com/histolab/gdc-slide-downloader/internal/config"
	"github.com/histolab/gdc-slide-downloader/internal/download"
	"github.com/histolab/gdc-slide-downloader/internal/ioutils"
	"github.com/histolab/gdc-slide-downloader/internal/journal"
	"github.com/histolab/gdc-slide-downloader/internal/model"
	"github.com/histolab/gdc-slide-downloader/internal/patients"
	"github.com/histolab/gdc-slide-downloader/internal/report"
)

func main() {
	// Command line flags
	var (
		typeFlag        = flag.String("type", "both", "Slide type to download: tissue, diagnostic, both, or none (metadata only)")
		projectsFlag    = flag.String("projects", "all", "TCGA project IDs to process (comma-separated) or \"all\"")
		patientsFlag    = flag.String("patients", "", "Patient IDs to include: comma-separated list or path to a CSV with a \"Patient ID\" column")
		outputFlag      = flag.String("output", "", "Output directory (overrides config)")
		configFlag      = flag.String("config", "", "Path to config file")
		concurrencyFlag = flag.Int("concurrency", 0, "Max concurrent downloads per patient (overrides config)")
		verboseFlag     = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag      = flag.Bool("dry-run", false, "Fetch metadata and write reports without downloading")
	)

	flag.Parse()

	// Argument validation happens before any network activity.
	slideType, err := model.ParseSlideType(*typeFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	allowList, err := patients.Resolve(*patientsFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *outputFlag != "" {
		settings.BaseDir = *outputFlag
	}
	if *concurrencyFlag > 0 {
		settings.MaxConcurrentDownloads = *concurrencyFlag
	}
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if err := ioutils.EnsureDir(settings.BaseDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	// One run per output directory at a time.
	lock := flock.New(settings.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error acquiring lock: %v\n", err)
		os.Exit(1)
	}
	if !locked {
		fmt.Fprintf(os.Stderr, "Error: another run is already using %s\n", settings.BaseDir)
		os.Exit(1)
	}
	defer lock.Unlock()

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	var j *journal.Journal
	if settings.EnableJournal {
		j, err = journal.Open(settings.JournalPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening run journal: %v\n", err)
			os.Exit(1)
		}
		defer j.Close()
	}

	logFile, err := os.OpenFile(settings.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	opts := download.Options{
		SlideType: slideType,
		Projects:  *projectsFlag,
		AllowList: allowList,
		DryRun:    *dryRunFlag,
		Journal:   j,
	}

	// Create manager with progress callback
	manager := download.NewManager(settings, opts, func(event download.ProgressEvent) {
		fmt.Fprintln(logFile, event.Message)

		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := ""
		switch event.Level {
		case download.LevelError:
			prefix = "❌ "
		case download.LevelWarning:
			prefix = "⚠️  "
		case download.LevelSuccess:
			prefix = "✅ "
		case download.LevelInfo:
			prefix = "ℹ️  "
		default:
			prefix = "   "
		}

		fmt.Println(prefix + event.Message)
	})

	fmt.Println("🔬 GDC Slide Downloader")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	if err := manager.Initialize(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing: %v\n", err)
		os.Exit(1)
	}

	if *dryRunFlag {
		fmt.Println("\n[Dry run - not downloading]")
	}

	if err := manager.Run(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nRun cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error during run: %v\n", err)
		os.Exit(1)
	}

	received, total, filesDone, filesTotal := manager.GetProgress()
	skipped, failed := manager.Counts()

	fmt.Println()
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println(report.RenderSummaryTable(manager.Summaries()))
	fmt.Printf("✨ Complete! Ensured %d/%d files (%.2f MB, %d skipped)\n",
		filesDone, filesTotal, float64(received)/1024/1024, skipped)
	if total > 0 && received < total {
		fmt.Printf("   (%.2f MB expected)\n", float64(total)/1024/1024)
	}
	if failed > 0 {
		fmt.Printf("⚠️  %d file(s) failed to download, see %s\n", failed, settings.LogPath())
	}
}
