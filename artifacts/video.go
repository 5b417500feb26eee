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
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// defaultAutomateAPI is the BrowserStack REST API for session metadata.
const defaultAutomateAPI = "https://api.browserstack.com/automate"

// VideoFetcher downloads the recording BrowserStack keeps for each remote
// session and renders a poster frame from it.
type VideoFetcher struct {
	user    string
	key     string
	apiBase string
	client  *http.Client
}

// NewVideoFetcher creates a fetcher authenticated with the BrowserStack
// account credentials.
func NewVideoFetcher(user, key string) *VideoFetcher {
	return &VideoFetcher{
		user:    user,
		key:     key,
		apiBase: defaultAutomateAPI,
		client:  &http.Client{Timeout: 2 * time.Minute},
	}
}

// Collect looks up the session's recording and saves it under destDir as
// session.mp4 with a session.jpg poster frame. Recordings are produced
// asynchronously after a session closes, so a missing video is normal and
// returns an empty path without error.
func (v *VideoFetcher) Collect(ctx context.Context, sessionID, destDir string) (string, error) {
	videoURL, err := v.lookupVideoURL(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if videoURL == "" {
		log.Printf("[artifacts] recording for session %s not ready yet", sessionID)
		return "", nil
	}

	dest := filepath.Join(destDir, "session.mp4")
	if err := v.download(ctx, videoURL, dest); err != nil {
		return "", fmt.Errorf("failed to download recording: %w", err)
	}

	// Poster frame is a bonus; no ffmpeg binary on the host is fine.
	poster := filepath.Join(destDir, "session.jpg")
	if err := posterFrame(dest, poster); err != nil {
		log.Printf("[artifacts] ⚠️ poster frame for %s skipped: %v", sessionID, err)
	}
	return dest, nil
}

func (v *VideoFetcher) lookupVideoURL(ctx context.Context, sessionID string) (string, error) {
	url := fmt.Sprintf("%s/sessions/%s.json", v.apiBase, sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(v.user, v.key)

	resp, err := v.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("session lookup failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("session lookup returned status %d", resp.StatusCode)
	}

	var parsed struct {
		AutomationSession struct {
			VideoURL string `json:"video_url"`
		} `json:"automation_session"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode session details: %w", err)
	}
	return parsed.AutomationSession.VideoURL, nil
}

func (v *VideoFetcher) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("recording download returned status %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, resp.Body)
	return err
}

// posterFrame grabs the frame at the one second mark.
func posterFrame(src, dst string) error {
	return ffmpeg.Input(src, ffmpeg.KwArgs{"ss": 1}).
		Output(dst, ffmpeg.KwArgs{"vframes": 1, "format": "image2", "vcodec": "mjpeg"}).
		OverwriteOutput().
		Run()
}
