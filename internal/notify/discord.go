// Package notify delivers messages to Discord, either through an incoming
// webhook or as a bot posting to a channel. Webhook URLs embed a secret
// token, so they are masked in every error message.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/redact"
)

const (
	// DefaultAPIBase is the Discord REST endpoint for bot messages.
	DefaultAPIBase = "https://discord.com/api/v10"

	// DefaultMaxRetries is the documented default for the --max-retries flag.
	DefaultMaxRetries = 3

	userAgent      = "skillctl/1.0 (+https://github.com/openhands/skillctl)"
	requestTimeout = 30 * time.Second
	maxRetryAfter  = 60 * time.Second
	maxJitter      = 250 * time.Millisecond
	maxErrorBody   = 500
)

// RateLimitError reports a Discord 429 together with the server-advised wait.
type RateLimitError struct {
	RetryAfter time.Duration
	Global     bool
	Body       string
}

func (e *RateLimitError) Error() string {
	msg := "discord rate limit (HTTP 429): retry after " + e.RetryAfter.String()
	if e.Global {
		msg += " (global)"
	}
	return msg
}

// Client posts Discord notifications. The zero value is usable and performs
// no retries; the CLI passes DefaultMaxRetries.
type Client struct {
	// HTTPClient is used for requests. Nil means a client with a 30s timeout.
	HTTPClient *http.Client

	// APIBase overrides the Discord endpoint for channel messages.
	// Empty means DefaultAPIBase.
	APIBase string

	// MaxRetries bounds how often a rate-limited request is retried.
	MaxRetries int

	// wait pauses between retries; a test seam.
	wait func(ctx context.Context, d time.Duration) error
}

type allowedMentions struct {
	Parse []string `json:"parse"`
}

type messagePayload struct {
	Content         string           `json:"content"`
	AllowedMentions *allowedMentions `json:"allowed_mentions,omitempty"`
}

// PostWebhook posts content to an incoming webhook URL. Mentions are never
// parsed. With wait set, ?wait=true is added so Discord returns the created
// message; otherwise Discord answers 204 and the returned document is nil.
// Discord rejects content over 2000 characters.
func (c *Client) PostWebhook(ctx context.Context, webhookURL, content string, wait bool) (json.RawMessage, error) {
	if webhookURL == "" {
		return nil, errors.New("webhook URL is required")
	}
	if content == "" {
		return nil, errors.New("content is required")
	}

	u, err := url.Parse(webhookURL)
	if err != nil {
		// The parse error echoes the URL, token included. Drop it.
		return nil, errors.New("invalid webhook URL")
	}
	if wait {
		q := u.Query()
		q.Set("wait", "true")
		u.RawQuery = q.Encode()
	}

	payload := messagePayload{
		Content:         content,
		AllowedMentions: &allowedMentions{Parse: []string{}},
	}
	return c.postJSON(ctx, u.String(), nil, payload)
}

// SendMessage posts content to a channel using a bot token. Mentions are not
// parsed unless allowMentions is set. Discord always returns the created
// message document.
func (c *Client) SendMessage(ctx context.Context, token, channelID, content string, allowMentions bool) (json.RawMessage, error) {
	if token == "" {
		return nil, errors.New("bot token is required")
	}
	if channelID == "" {
		return nil, errors.New("channel id is required")
	}
	if content == "" {
		return nil, errors.New("content is required")
	}

	payload := messagePayload{Content: content}
	if !allowMentions {
		payload.AllowedMentions = &allowedMentions{Parse: []string{}}
	}

	base := c.APIBase
	if base == "" {
		base = DefaultAPIBase
	}
	headers := map[string]string{"Authorization": "Bot " + token}
	return c.postJSON(ctx, base+"/channels/"+channelID+"/messages", headers, payload)
}

// postJSON posts the payload, retrying rate-limited requests up to
// MaxRetries times.
func (c *Client) postJSON(ctx context.Context, rawURL string, headers map[string]string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "encoding payload")
	}

	retries := c.MaxRetries
	if retries < 0 {
		retries = 0
	}
	for attempt := 1; ; attempt++ {
		raw, err := c.post(ctx, rawURL, headers, body)
		if err == nil {
			return raw, nil
		}
		var rle *RateLimitError
		if !errors.As(err, &rle) || attempt > retries {
			return nil, err
		}
		if werr := c.waitRetry(ctx, rle.RetryAfter); werr != nil {
			return nil, errors.Wrap(werr, "waiting out rate limit")
		}
	}
}

// post performs one request. A 429 carrying any retry hint comes back as a
// *RateLimitError; everything else fails outright.
func (c *Client) post(ctx context.Context, rawURL string, headers map[string]string, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.New("building request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		// url.Error repeats the URL, token included. Keep the cause only.
		cause := err
		var uerr *url.Error
		if errors.As(err, &uerr) {
			cause = uerr.Err
		}
		return nil, errors.Newf("posting to %s: %v", redact.MaskWebhookURL(rawURL), cause)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrapf(err, "reading response from %s", redact.MaskWebhookURL(rawURL))
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if len(bytes.TrimSpace(respBody)) == 0 {
			return nil, nil
		}
		return json.RawMessage(respBody), nil
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		if retryAfter, ok := parseRetryAfter(respBody, resp.Header); ok {
			return nil, &RateLimitError{
				RetryAfter: retryAfter,
				Global:     gjson.GetBytes(respBody, "global").Bool(),
				Body:       truncate(respBody),
			}
		}
	}

	msg := errors.Newf("posting to %s: HTTP %d", redact.MaskWebhookURL(rawURL), resp.StatusCode)
	if len(respBody) > 0 {
		msg = errors.Newf("posting to %s: HTTP %d: %s", redact.MaskWebhookURL(rawURL), resp.StatusCode, truncate(respBody))
	}
	return nil, msg
}

// parseRetryAfter resolves the advised wait for a 429: retry_after in the
// body, then the Retry-After header, then X-RateLimit-Reset-After. All are
// seconds, possibly fractional.
func parseRetryAfter(body []byte, h http.Header) (time.Duration, bool) {
	if v := gjson.GetBytes(body, "retry_after"); v.Exists() {
		switch v.Type {
		case gjson.Number:
			return secondsToDuration(v.Float()), true
		case gjson.String:
			if f, err := strconv.ParseFloat(v.Str, 64); err == nil {
				return secondsToDuration(f), true
			}
		}
	}
	for _, header := range []string{"Retry-After", "X-RateLimit-Reset-After"} {
		if s := h.Get(header); s != "" {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return secondsToDuration(f), true
			}
		}
	}
	return 0, false
}

func secondsToDuration(s float64) time.Duration {
	if s < 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}

// waitRetry sleeps for the advised duration, capped at 60s plus a small
// jitter so synchronized clients do not stampede.
func (c *Client) waitRetry(ctx context.Context, d time.Duration) error {
	if d > maxRetryAfter {
		d = maxRetryAfter
	}
	d += time.Duration(rand.Int63n(int64(maxJitter)))
	if c.wait != nil {
		return c.wait(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: requestTimeout}
}

func truncate(body []byte) string {
	s := string(bytes.TrimSpace(body))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
