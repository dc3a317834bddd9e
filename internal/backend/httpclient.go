// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	apperrors "mg/cli/internal/errors"
	"mg/cli/internal/logging"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single request when Options.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// Options configures the HTTP client.
type Options struct {
	// Timeout for a whole request; zero means DefaultTimeout.
	Timeout time.Duration
	// UserAgent sent with every request.
	UserAgent string
	// Client overrides the underlying *http.Client (Timeout is then ignored).
	Client *http.Client
	Logger zerolog.Logger
}

// HTTP implements API over the auth service's JSON endpoints.
type HTTP struct {
	// baseURL is the unvalidated base URL (e.g., "http://localhost:3000/api/auth")
	baseURL   string
	client    *http.Client
	userAgent string
	now       func() time.Time
	log       zerolog.Logger
}

// newHTTP creates a new HTTP client with the given base URL and options.
func newHTTP(baseURL string, opts Options) *HTTP {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "mg-cli"
	}
	return &HTTP{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    client,
		userAgent: ua,
		now:       time.Now,
		log:       opts.Logger,
	}
}

// ValidateBaseURL checks that raw is an absolute http(s) URL with a host.
func ValidateBaseURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return apperrors.New(apperrors.Configuration, "base URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return apperrors.Wrap(apperrors.Configuration, "parse base URL", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return apperrors.New(apperrors.Configuration, fmt.Sprintf("base URL scheme must be http or https, got %q", u.Scheme))
	}
	if u.Host == "" {
		return apperrors.New(apperrors.Configuration, "base URL has no host")
	}
	return nil
}

// endpoint joins path onto the validated base URL.
func (h *HTTP) endpoint(path string) (string, error) {
	if err := ValidateBaseURL(h.baseURL); err != nil {
		return "", err
	}
	return h.baseURL + path, nil
}

// postJSON sends body to path and decodes the response into out when the
// status is one of ok. Any other status becomes an Authentication error
// carrying the response body verbatim.
func (h *HTTP) postJSON(ctx context.Context, path string, body, out any, ok ...int) error {
	target, err := h.endpoint(path)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return apperrors.Wrap(apperrors.Decode, "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return apperrors.Wrap(apperrors.Configuration, "build request", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	h.log.Debug().
		Str("url", logging.Mask(target)).
		Str("request_id", requestID).
		Str("body", logging.Mask(string(payload))).
		Msg("sending request")

	resp, err := h.client.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.Network, "POST "+logging.Mask(target), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return apperrors.Wrap(apperrors.Network, "read response", err)
	}

	h.log.Debug().
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Str("body", logging.Mask(string(raw))).
		Msg("received response")

	if !slices.Contains(ok, resp.StatusCode) {
		return apperrors.Rejected(resp.StatusCode, string(raw))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.Wrap(apperrors.Decode, "decode response", err)
	}
	return nil
}
