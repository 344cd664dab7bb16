// Package kickbox implements the VerificationClient interface against the
// Kickbox REST API.
package kickbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/skip405/kickbox-verifier/internal/core"
	"go.uber.org/zap"
)

// DefaultBaseURL is the production Kickbox API endpoint.
const DefaultBaseURL = "https://api.kickbox.com/v2"

const defaultTimeoutSeconds = 6

// Client is a Kickbox API client. Transport failures are folded into the
// returned envelope; Verify never returns a Go error.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Kickbox client. An empty baseURL falls back to the
// production endpoint.
func NewClient(apiKey, baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Verify verifies a single email address.
func (c *Client) Verify(ctx context.Context, email string, timeoutSeconds int) core.VerificationEnvelope {
	if timeoutSeconds <= 0 {
		timeoutSeconds = defaultTimeoutSeconds
	}

	query := url.Values{}
	query.Set("email", email)
	query.Set("apikey", c.apiKey)
	query.Set("timeout", strconv.Itoa(timeoutSeconds))

	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSeconds)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/verify?"+query.Encode(), nil)
	if err != nil {
		return errorEnvelope(err)
	}

	return c.do(req)
}

// VerifyBatch submits a batch verification job. The payload is a
// newline-delimited address list; the filename and optional callback URL
// travel in Kickbox's custom headers.
func (c *Client) VerifyBatch(ctx context.Context, emails []string, opts core.BatchOptions) core.VerificationEnvelope {
	filename := opts.Filename
	if filename == "" {
		filename = "Batch Verification - " + time.Now().UTC().Format("01-02-2006-15-04-05")
	}

	query := url.Values{}
	query.Set("apikey", c.apiKey)

	ctx, cancel := context.WithTimeout(ctx, defaultTimeoutSeconds*time.Second)
	defer cancel()

	body := strings.NewReader(strings.Join(emails, "\n"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/verify-batch?"+query.Encode(), body)
	if err != nil {
		return errorEnvelope(err)
	}

	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set("X-Kickbox-Filename", filename)
	if opts.CallbackURL != "" {
		req.Header.Set("X-Kickbox-Callback", opts.CallbackURL)
	}

	c.logger.Debug("Submitting batch verification",
		zap.Int("emails", len(emails)),
		zap.String("filename", filename))

	return c.do(req)
}

// CheckBatch retrieves the status of a batch verification job.
func (c *Client) CheckBatch(ctx context.Context, jobID string) core.VerificationEnvelope {
	query := url.Values{}
	query.Set("apikey", c.apiKey)

	ctx, cancel := context.WithTimeout(ctx, defaultTimeoutSeconds*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/verify-batch/"+url.PathEscape(jobID)+"?"+query.Encode(), nil)
	if err != nil {
		return errorEnvelope(err)
	}

	return c.do(req)
}

// do executes a request and normalizes the response into an envelope.
// A malformed JSON body counts as a transport failure.
func (c *Client) do(req *http.Request) core.VerificationEnvelope {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Kickbox request failed", zap.Error(err))
		return errorEnvelope(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errorEnvelope(fmt.Errorf("failed to read kickbox response: %w", err))
	}

	var body core.VerificationBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return errorEnvelope(fmt.Errorf("failed to parse kickbox response: %w", err))
	}

	headers := make(map[string]string, len(resp.Header))
	for name := range resp.Header {
		headers[name] = resp.Header.Get(name)
	}

	return core.VerificationEnvelope{
		Success: true,
		Data: core.VerificationData{
			Code:    resp.StatusCode,
			Body:    &body,
			Headers: headers,
		},
	}
}

func errorEnvelope(err error) core.VerificationEnvelope {
	return core.VerificationEnvelope{
		Success: false,
		Data:    core.VerificationData{Error: err.Error()},
	}
}
