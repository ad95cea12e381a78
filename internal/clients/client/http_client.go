package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shitzu-labs/shitzu-rewarder/internal/observability/metrics"
)

// HttpClient is implemented by every client that talks to a json service.
type HttpClient interface {
	GetBaseURL() string
	GetDefaultRequestTimeout() time.Duration
	GetHttpClient() *http.Client
}

type HttpClientOptions struct {
	Timeout      time.Duration
	Path         string
	TemplatePath string // Metrics purpose
	Headers      map[string]string
}

// HttpError carries the status code of a non 2xx response.
type HttpError struct {
	StatusCode int
	Body       string
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Body)
}

// IsRetryable reports whether a request that failed with e may succeed when
// repeated.
func (e *HttpError) IsRetryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

const maxErrorBodyLength = 512

func isAllowedMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodPost
}

func sendRequest[I any, R any](
	ctx context.Context, client HttpClient, method string, opts *HttpClientOptions, input *I,
) (*R, error) {
	if !isAllowedMethod(method) {
		return nil, fmt.Errorf("method %s is not allowed", method)
	}
	url := fmt.Sprintf("%s%s", client.GetBaseURL(), opts.Path)
	timeout := client.GetDefaultRequestTimeout()
	// If timeout is set, use it instead of the default
	if opts.Timeout != 0 {
		timeout = opts.Timeout
	}
	// Set a timeout for the request
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var req *http.Request
	var requestError error
	if input != nil && method == http.MethodPost {
		body, err := json.Marshal(input)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		req, requestError = http.NewRequestWithContext(ctxWithTimeout, method, url, bytes.NewBuffer(body))
	} else {
		req, requestError = http.NewRequestWithContext(ctxWithTimeout, method, url, nil)
	}
	if requestError != nil {
		return nil, fmt.Errorf("failed to create request: %w", requestError)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.GetHttpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to %s: %w", opts.TemplatePath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLength))
		return nil, &HttpError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var output R
	if err := json.NewDecoder(resp.Body).Decode(&output); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", opts.TemplatePath, err)
	}

	return &output, nil
}

// SendRequest sends a json request and decodes a json response, recording
// the request duration.
func SendRequest[I any, R any](
	ctx context.Context, client HttpClient, method string, opts *HttpClientOptions, input *I,
) (*R, error) {
	timer := metrics.StartClientRequestDurationTimer(
		client.GetBaseURL(), method, opts.TemplatePath,
	)

	result, err := sendRequest[I, R](ctx, client, method, opts, input)

	statusCode := http.StatusOK
	if err != nil {
		statusCode = http.StatusInternalServerError
		var httpErr *HttpError
		if errors.As(err, &httpErr) {
			statusCode = httpErr.StatusCode
		}
		log.Ctx(ctx).Debug().
			Err(err).
			Str("path", opts.TemplatePath).
			Msg("client request failed")
	}
	timer(statusCode)

	return result, err
}
