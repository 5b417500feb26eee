package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Ciriously/BrowserStack-Automation-Demo/config"
)

// defaultGoogleEndpoint is the free web translation endpoint.
// Request: GET ?client=gtx&sl=es&tl=en&dt=t&q=<text>
// Response: [[["translated","original",...],["seg2","orig2",...]],...]
const defaultGoogleEndpoint = "https://translate.googleapis.com/translate_a/single"

// GoogleWebProvider translates through the public gtx endpoint. No API key
// is needed, which keeps the default pipeline free of credentials.
type GoogleWebProvider struct {
	endpoint string
	client   *http.Client
}

// NewGoogleWebProvider creates the provider. TRANSLATE_ENDPOINT overrides
// the endpoint for testing against a stub.
func NewGoogleWebProvider() *GoogleWebProvider {
	return &GoogleWebProvider{
		endpoint: config.GetEnvOrDefault("TRANSLATE_ENDPOINT", defaultGoogleEndpoint),
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *GoogleWebProvider) Name() string { return "google-web" }

func (p *GoogleWebProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", sourceLang)
	params.Set("tl", targetLang)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build translation request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("translation endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload []interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode translation response: %w", err)
	}
	return joinSegments(payload)
}

// joinSegments concatenates the translated half of each sentence segment.
// The endpoint splits long inputs into segments of [translated, original]
// pairs nested under the first array element.
func joinSegments(payload []interface{}) (string, error) {
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translation response")
	}
	segments, ok := payload[0].([]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected translation response shape")
	}
	var b strings.Builder
	for _, raw := range segments {
		seg, ok := raw.([]interface{})
		if !ok || len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			b.WriteString(s)
		}
	}
	out := b.String()
	if out == "" {
		return "", fmt.Errorf("no translation segments in response")
	}
	return out, nil
}
