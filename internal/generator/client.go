package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"

	_ "image/gif"
	_ "image/jpeg"

	"promptcanvas/internal/config"
	"promptcanvas/internal/models"
)

// ErrTokenMissing means no inference API credential is configured. It is
// returned before any network call is made.
var ErrTokenMissing = errors.New("inference api token not configured")

// GenerationError wraps a failed inference attempt. Stage names the phase
// that failed: request, auth, quota, remote or decode.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("image generation failed (%s): %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Client calls the hosted text-to-image inference endpoint. One request per
// Generate call, no retries; the caller decides whether to resubmit.
type Client struct {
	cfg    config.InferenceConfig
	styles map[models.Style]string
	http   *http.Client
}

func NewClient(cfg config.InferenceConfig, styles map[string]string) *Client {
	table := make(map[models.Style]string, len(styles))
	for name, suffix := range styles {
		table[models.Style(name)] = suffix
	}
	return &Client{
		cfg:    cfg,
		styles: table,
		http:   &http.Client{},
	}
}

// Enhance appends the configured suffix for style to prompt. A style without
// a configured suffix leaves the prompt untouched.
func (c *Client) Enhance(prompt string, style models.Style) string {
	suffix, ok := c.styles[style]
	if !ok || suffix == "" {
		return prompt
	}
	return fmt.Sprintf("%s, %s", prompt, suffix)
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
	Model  string `json:"model,omitempty"`
}

// Generate produces one PNG-encoded image for prompt rendered in style.
// The request runs under the configured deadline; expiry surfaces as a
// GenerationError like any other transport failure.
func (c *Client) Generate(ctx context.Context, prompt string, style models.Style) ([]byte, error) {
	if c.cfg.Token == "" {
		return nil, ErrTokenMissing
	}

	enhanced := c.Enhance(prompt, style)

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	payload, err := json.Marshal(inferenceRequest{
		Inputs: enhanced,
		Model:  c.cfg.Model,
	})
	if err != nil {
		return nil, &GenerationError{Stage: "request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &GenerationError{Stage: "request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/png")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &GenerationError{Stage: "request", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GenerationError{Stage: "request", Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &GenerationError{Stage: "auth", Err: remoteError(resp.StatusCode, body)}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &GenerationError{Stage: "quota", Err: remoteError(resp.StatusCode, body)}
	case resp.StatusCode != http.StatusOK:
		return nil, &GenerationError{Stage: "remote", Err: remoteError(resp.StatusCode, body)}
	}

	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, &GenerationError{Stage: "decode", Err: err}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, &GenerationError{Stage: "decode", Err: err}
	}
	return buf.Bytes(), nil
}

func remoteError(status int, body []byte) error {
	snippet := string(body)
	if len(snippet) > 200 {
		snippet = snippet[:200]
	}
	return fmt.Errorf("status %d: %s", status, snippet)
}
