// Command bsharness runs the article pipeline across the whole browser
// matrix in parallel: each cell gets its own session, scrapes the opinion
// listing, translates the titles, analyses word repetitions, and reports
// its verdict to the dashboard. The process exits non-zero if any session
// failed.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Ciriously/BrowserStack-Automation-Demo/artifacts"
	"github.com/Ciriously/BrowserStack-Automation-Demo/config"
	"github.com/Ciriously/BrowserStack-Automation-Demo/orchestrator"
	"github.com/Ciriously/BrowserStack-Automation-Demo/pipeline"
	"github.com/Ciriously/BrowserStack-Automation-Demo/preflight"
	"github.com/Ciriously/BrowserStack-Automation-Demo/report"
	"github.com/Ciriously/BrowserStack-Automation-Demo/scraper"
	"github.com/Ciriously/BrowserStack-Automation-Demo/session"
	"github.com/Ciriously/BrowserStack-Automation-Demo/translate"
	"github.com/Ciriously/BrowserStack-Automation-Demo/tui"
	"github.com/Ciriously/BrowserStack-Automation-Demo/types"
)

func main() {
	cfg := config.Load()

	useTUI := flag.Bool("tui", false, "render a live dashboard instead of plain logs")
	useLocal := flag.Bool("local", false, "run against local headless Chrome instead of the remote grid")
	listing := flag.String("listing", cfg.ListingURL, "listing page to scrape: a URL or a preset name (opinion, espana, economia, tecnologia, stub)")
	count := flag.Int("count", cfg.ArticleCount, "number of articles to extract per session")
	flag.Parse()
	cfg.ListingURL = ResolveListingURL(*listing)
	cfg.ArticleCount = *count

	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ invalid configuration: %v", err)
	}

	if cfg.FeedURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := preflight.CheckFeed(ctx, cfg.FeedURL)
		cancel()
		if err != nil {
			log.Fatalf("❌ preflight failed: %v", err)
		}
	}

	matrix, err := cfg.Matrix()
	if err != nil {
		log.Fatalf("❌ could not resolve capability matrix: %v", err)
	}

	provider, err := buildProvider(cfg, *useLocal)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	translationProvider, err := translate.NewProviderFromEnv()
	if err != nil {
		log.Fatalf("❌ could not build translation provider: %v", err)
	}
	translator := translate.NewTranslator(translationProvider, cfg.SourceLang, cfg.TargetLang)

	sc := scraper.New(scraper.Config{WaitTimeout: cfg.WaitTimeout})
	pipe := pipeline.New(sc, translator, cfg.ListingURL, cfg.ArticleCount, cfg.MinWordCount)

	orchCfg := orchestrator.Config{SessionBudget: cfg.SessionBudget, TestName: cfg.TestName}

	var rep *types.RunReport
	if *useTUI {
		rep = runWithDashboard(provider, pipe, orchCfg, matrix)
	} else {
		rep = orchestrator.New(provider, pipe, orchCfg).RunMatrix(context.Background(), matrix)
	}

	report.PrintSummary(os.Stdout, rep)
	exportRun(cfg, rep, *useLocal)

	os.Exit(report.ExitCode(rep))
}

// buildProvider picks where sessions come from: the remote grid by default,
// local headless Chrome with -local.
func buildProvider(cfg config.Config, local bool) (session.Provider, error) {
	if local {
		log.Printf("[main] running against local Chrome (headless=%v)", cfg.Headless)
		return session.NewLocalProvider(cfg.Headless), nil
	}
	if !cfg.RemoteConfigured() {
		return nil, fmt.Errorf("remote grid is not configured: set BS_USER and BS_KEY (or HUB_URL), or pass -local")
	}
	return session.NewRemoteProvider(cfg.ResolveHubURL()), nil
}

// runWithDashboard mirrors the run into a live terminal UI. Logging is
// silenced while the dashboard owns the terminal; the run itself keeps
// going even if the user quits the UI early.
func runWithDashboard(provider session.Provider, runner orchestrator.Runner, orchCfg orchestrator.Config, matrix []types.CapabilityDescriptor) *types.RunReport {
	events := make(chan orchestrator.Event, 64)
	orchCfg.Events = events
	orch := orchestrator.New(provider, runner, orchCfg)

	log.SetOutput(io.Discard)
	program := tea.NewProgram(tui.NewModel(orchCfg.TestName, matrix, events))

	reports := make(chan *types.RunReport, 1)
	go func() {
		rep := orch.RunMatrix(context.Background(), matrix)
		close(events)
		reports <- rep
		program.Send(tui.RunFinishedMsg{Report: rep})
	}()

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "dashboard error: %v\n", err)
	}
	log.SetOutput(os.Stderr)
	return <-reports
}

// exportRun pushes the finished report to every sink that is configured:
// the artifacts directory (with optional S3 mirroring and dashboard
// recordings), Kafka, and the spreadsheet run log. All of them are
// best-effort; a sink failure never changes the exit code.
func exportRun(cfg config.Config, rep *types.RunReport, local bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if cfg.ArtifactsDir != "" {
		collector := artifacts.NewCollector(cfg.ArtifactsDir, artifactStore(ctx))
		runDir, err := collector.CollectRun(ctx, cfg.TestName, rep)
		if err != nil {
			log.Printf("⚠️ artifact collection failed: %v", err)
		} else {
			log.Printf("[main] artifacts written to %s", runDir)
			if !local && cfg.BSUser != "" && cfg.BSKey != "" {
				collectRecordings(ctx, cfg, rep, runDir)
			}
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := report.NewPublisher(report.PublisherConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
		if err != nil {
			log.Printf("⚠️ kafka publisher unavailable: %v", err)
		} else {
			if err := publisher.PublishRun(cfg.TestName, rep); err != nil {
				log.Printf("⚠️ kafka publish failed: %v", err)
			}
			if err := publisher.Close(); err != nil {
				log.Printf("⚠️ kafka publisher close failed: %v", err)
			}
		}
	}

	exporter, err := report.NewSheetsExporterFromEnv(ctx)
	if err != nil {
		log.Printf("⚠️ sheets exporter unavailable: %v", err)
	} else if exporter != nil {
		if err := exporter.AppendRun(ctx, cfg.TestName, rep); err != nil {
			log.Printf("⚠️ sheets export failed: %v", err)
		}
	}
}

// artifactStore wraps the env-gated S3 store, keeping the interface nil
// when S3 is not configured.
func artifactStore(ctx context.Context) artifacts.Store {
	s3 := artifacts.NewS3StoreFromEnv(ctx)
	if s3 == nil {
		return nil
	}
	return s3
}

// collectRecordings downloads the dashboard's session recordings next to
// each session's artifacts.
func collectRecordings(ctx context.Context, cfg config.Config, rep *types.RunReport, runDir string) {
	fetcher := artifacts.NewVideoFetcher(cfg.BSUser, cfg.BSKey)
	for _, o := range rep.All() {
		if o.SessionID == "" {
			continue
		}
		path, err := fetcher.Collect(ctx, o.SessionID, filepath.Join(runDir, o.Descriptor.Key()))
		if err != nil {
			log.Printf("⚠️ recording fetch failed for %s: %v", o.Descriptor.Label(), err)
			continue
		}
		if path == "" {
			log.Printf("[main] recording for %s is not ready yet", o.Descriptor.Label())
			continue
		}
		log.Printf("[main] 🎥 recording saved: %s", path)
	}
}
