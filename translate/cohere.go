package translate

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"

	"github.com/Ciriously/BrowserStack-Automation-Demo/config"
)

// CohereProvider translates through the Cohere chat API. Useful when the
// free endpoint is rate limited or blocked from CI.
type CohereProvider struct {
	client *cohereclient.Client
	model  string
}

// NewCohereProvider requires COHERE_API_KEY; COHERE_MODEL overrides the
// default chat model.
func NewCohereProvider() (*CohereProvider, error) {
	apiKey := os.Getenv("COHERE_API_KEY")
	if apiKey == "" {
		return nil, errors.New("COHERE_API_KEY is not set")
	}
	model := config.GetEnvOrDefault("COHERE_MODEL", "command-a-03-2025")

	// Force HTTP/1.1 to avoid HTTP/2 protocol errors against the Cohere edge
	httpClient := &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}
	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &CohereProvider{client: client, model: model}, nil
}

func (p *CohereProvider) Name() string { return "cohere" }

func (p *CohereProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	prompt := fmt.Sprintf(
		"Translate the following %s text to %s. Reply with the translation only, no commentary.\n\n%s",
		languageName(sourceLang), languageName(targetLang), text,
	)
	temperature := 0.0
	resp, err := p.client.Chat(ctx, &cohere.ChatRequest{
		Message:     prompt,
		Model:       &p.model,
		Temperature: &temperature,
	})
	if err != nil {
		return "", fmt.Errorf("cohere chat error: %w", err)
	}
	if resp == nil {
		return "", errors.New("cohere chat returned empty response")
	}
	out := strings.TrimSpace(resp.Text)
	if out == "" {
		return "", errors.New("cohere chat returned no text")
	}
	return out, nil
}

// languageName expands the language codes the pipeline uses so the prompt
// reads naturally. Unknown codes pass through unchanged.
func languageName(code string) string {
	switch strings.ToLower(code) {
	case "es":
		return "Spanish"
	case "en":
		return "English"
	case "fr":
		return "French"
	case "de":
		return "German"
	case "pt":
		return "Portuguese"
	default:
		return code
	}
}
