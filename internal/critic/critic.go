// internal/critic/critic.go
package critic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/artfolk/gavel/internal/models"
)

// Fallback strings returned instead of errors. Describe never raises to the
// caller.
const (
	// FallbackUnavailable is returned when no API credentials are configured.
	FallbackUnavailable = "The resident art critic is currently unavailable. Please admire the piece in silence."

	// FallbackError is returned when the upstream call fails for any reason.
	FallbackError = "An enigmatic silence surrounds this piece, leaving its interpretation entirely to the discerning collector."
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent"

// Client generates auction flavor text via a hosted text-generation API.
type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
	Logger  *logrus.Logger
}

// NewFromEnv builds a client from CRITIC_API_KEY and CRITIC_URL. An empty key
// is valid; Describe then always returns FallbackUnavailable.
func NewFromEnv(logger *logrus.Logger) *Client {
	baseURL := os.Getenv("CRITIC_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		APIKey:  os.Getenv("CRITIC_API_KEY"),
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		Logger:  logger,
	}
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

// Describe returns a short evocative description of the painting under
// auction. It never returns an error: missing credentials or a failed call
// yield a fixed fallback string instead.
func (c *Client) Describe(ctx context.Context, artist models.Artist, cardID string) string {
	if c.APIKey == "" {
		return FallbackUnavailable
	}

	prompt := fmt.Sprintf(`You are an eloquent and slightly pretentious art critic for a high-end gallery.
A piece by the modern artist %s is up for auction. The piece is part of their collection, identified as %q.
The artist's style blends pop art, street art, and surrealism.
Write a short, evocative, and compelling description (2-3 sentences) for this specific painting to entice bidders.
Focus on the feeling and potential meaning, not just a physical description. Make it sound valuable and important.`, artist, cardID)

	reqBody := generateRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: prompt}}}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		c.warnf("failed to marshal critic request: %v", err)
		return FallbackError
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(payload))
	if err != nil {
		c.warnf("failed to build critic request: %v", err)
		return FallbackError
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.APIKey)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		c.warnf("critic call failed for %s: %v", cardID, err)
		return FallbackError
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.warnf("critic returned status %d for %s", resp.StatusCode, cardID)
		return FallbackError
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.warnf("failed to decode critic response for %s: %v", cardID, err)
		return FallbackError
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		c.warnf("critic returned no candidates for %s", cardID)
		return FallbackError
	}
	return out.Candidates[0].Content.Parts[0].Text
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) warnf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Warnf(format, args...)
	}
}

// Static returns the same text for every painting. Useful in tests and when
// the engine runs without network access.
type Static string

func (s Static) Describe(ctx context.Context, artist models.Artist, cardID string) string {
	return string(s)
}
