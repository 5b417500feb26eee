// Package artifacts persists what a matrix run produced: the run event,
// per-session outcomes, article cover images, readable text snapshots, and
// session recordings. Collection is best effort; a missing image or an
// unreachable page costs a log line, never the run verdict.
package artifacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/Ciriously/BrowserStack-Automation-Demo/report"
	"github.com/Ciriously/BrowserStack-Automation-Demo/types"
)

const (
	// WorkerCount bounds parallel artifact downloads.
	WorkerCount     = 5
	downloadTimeout = 30 * time.Second
)

// Store mirrors collected files to remote storage. *S3Store is the
// production implementation; nil disables mirroring.
type Store interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
}

// Collector writes run artifacts under a local directory and optionally
// mirrors them to a Store.
type Collector struct {
	dir    string
	store  Store
	client *http.Client

	// extract produces the readable snapshot for an article URL.
	extract func(url string, timeout time.Duration) (readability.Article, error)
}

// NewCollector creates a collector rooted at dir.
func NewCollector(dir string, store Store) *Collector {
	return &Collector{
		dir:     dir,
		store:   store,
		client:  &http.Client{Timeout: downloadTimeout},
		extract: readability.FromURL,
	}
}

// fetchJob is one unit of download work for the pool.
type fetchJob struct {
	kind string // "image" or "readable"
	url  string
	dest string
}

// CollectRun writes everything the report holds. Layout:
//
//	<dir>/<run timestamp>/run.json
//	<dir>/<run timestamp>/<session key>/outcome.json
//	<dir>/<run timestamp>/<session key>/article_image_N.jpg
//	<dir>/<run timestamp>/<session key>/article_N.txt
func (c *Collector) CollectRun(ctx context.Context, testName string, r *types.RunReport) (string, error) {
	runDir := filepath.Join(c.dir, r.StartedAt.Format("20060102-150405"))
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create artifacts dir: %w", err)
	}

	if err := c.writeJSON(ctx, runDir, "run.json", report.BuildRunEvent(testName, r)); err != nil {
		return "", err
	}

	var jobs []fetchJob
	for _, outcome := range r.All() {
		sessionDir := filepath.Join(runDir, outcome.Descriptor.Key())
		if err := os.MkdirAll(sessionDir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create session dir: %w", err)
		}
		if err := c.writeJSON(ctx, sessionDir, "outcome.json", outcome); err != nil {
			return "", err
		}
		if !outcome.Passed() {
			continue
		}
		for i, article := range outcome.Articles {
			if article.ImageURL != "" {
				jobs = append(jobs, fetchJob{
					kind: "image",
					url:  article.ImageURL,
					dest: filepath.Join(sessionDir, fmt.Sprintf("article_image_%d.jpg", i+1)),
				})
			}
			if article.URL != "" {
				jobs = append(jobs, fetchJob{
					kind: "readable",
					url:  article.URL,
					dest: filepath.Join(sessionDir, fmt.Sprintf("article_%d.txt", i+1)),
				})
			}
		}
	}

	c.runPool(ctx, jobs)
	log.Printf("[artifacts] run artifacts written to %s", runDir)
	return runDir, nil
}

// runPool drains jobs through a fixed worker pool.
func (c *Collector) runPool(ctx context.Context, jobs []fetchJob) {
	var wg sync.WaitGroup
	jobChan := make(chan fetchJob, len(jobs))

	for i := 0; i < WorkerCount; i++ {
		go func(workerID int) {
			for job := range jobChan {
				if err := c.fetchOne(ctx, job); err != nil {
					log.Printf("[artifacts] [worker %d] ⚠️ %s: %v", workerID, job.url, err)
				}
				wg.Done()
			}
		}(i)
	}

	for _, job := range jobs {
		wg.Add(1)
		jobChan <- job
	}
	wg.Wait()
	close(jobChan)
}

func (c *Collector) fetchOne(ctx context.Context, job fetchJob) error {
	switch job.kind {
	case "image":
		if err := c.downloadImage(ctx, job.url, job.dest); err != nil {
			return err
		}
	case "readable":
		article, err := c.extract(job.url, downloadTimeout)
		if err != nil {
			return fmt.Errorf("readability extraction failed: %w", err)
		}
		if err := os.WriteFile(job.dest, []byte(article.TextContent), 0o644); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown job kind %q", job.kind)
	}
	return c.mirror(ctx, job.dest)
}

func (c *Collector) downloadImage(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image download returned status %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		return err
	}
	return nil
}

func (c *Collector) writeJSON(ctx context.Context, dir, name string, v interface{}) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	dest := filepath.Join(dir, name)
	if err := os.WriteFile(dest, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return c.mirror(ctx, dest)
}

// mirror uploads a written file to the store, keyed by its path relative to
// the collector root.
func (c *Collector) mirror(ctx context.Context, path string) error {
	if c.store == nil {
		return nil
	}
	key, err := filepath.Rel(c.dir, path)
	if err != nil {
		key = filepath.Base(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := c.store.Upload(ctx, filepath.ToSlash(key), f, contentTypeFor(path)); err != nil {
		log.Printf("[artifacts] ⚠️ mirror failed for %s: %v", key, err)
	}
	return nil
}

func contentTypeFor(path string) string {
	switch filepath.Ext(path) {
	case ".json":
		return "application/json"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".mp4":
		return "video/mp4"
	default:
		return "text/plain; charset=utf-8"
	}
}
