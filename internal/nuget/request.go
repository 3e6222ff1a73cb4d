package nuget

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// start issues a GET to rawURL on behalf of source, composing the caller's
// cancellation signal with the operation timeout. The returned cancel must
// be called once the response body is no longer needed.
func (c *RegistryClient) start(ctx context.Context, source Source, rawURL string, timeout time.Duration) (*http.Response, context.Context, context.CancelFunc, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		return nil, nil, nil, NewRegistryError(ErrNetwork, "request cancelled before it began")
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		cancel()
		return nil, nil, nil, NewRegistryError(ErrNetwork, fmt.Sprintf("failed to create request: %v", err))
	}
	req.Header = headersFor(source, rawURL)

	c.logger.Debug("registry request", "source", source.ID, "url", rawURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, nil, nil, classifyTransport(ctx, reqCtx, err)
	}
	return resp, reqCtx, cancel, nil
}

// classifyTransport distinguishes caller-initiated cancellation from an
// elapsed operation timeout by checking which context fired.
func classifyTransport(callerCtx, reqCtx context.Context, err error) *RegistryError {
	switch {
	case callerCtx.Err() != nil:
		return NewRegistryError(ErrNetwork, "request was cancelled")
	case reqCtx != nil && reqCtx.Err() == context.DeadlineExceeded:
		return NewRegistryError(ErrNetwork, "request timed out")
	}
	return NewRegistryError(ErrNetwork, fmt.Sprintf("request failed: %v", err))
}

// classifyStatus maps a non-2xx response to the error taxonomy. A non-nil
// notFound error is returned for 404s so each operation keeps its own
// not-found semantics.
func classifyStatus(source Source, status int, header http.Header, body []byte, notFound *RegistryError) *RegistryError {
	switch {
	case status >= 200 && status < 300:
		return nil

	case status == http.StatusNotFound && notFound != nil:
		notFound.Status = status
		return notFound

	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		re := NewRegistryError(ErrAuthRequired,
			fmt.Sprintf("source %s rejected the request (status %d)", source.Name, status))
		re.Status = status
		re.Hint = fmt.Sprintf("configure credentials for source %q via 'nugo source add %s --auth <type>'",
			source.ID, source.ID)
		return re

	case status == http.StatusTooManyRequests:
		re := NewRegistryError(ErrRateLimited,
			fmt.Sprintf("source %s is rate limiting requests", source.Name))
		re.Status = status
		if v := header.Get("Retry-After"); v != "" {
			if secs, err := strconv.Atoi(v); err == nil {
				re.RetryAfter = secs
			}
		}
		return re
	}

	re := NewRegistryError(ErrAPI,
		fmt.Sprintf("request failed (status %d): %s", status, truncateBody(body)))
	re.Status = status
	return re
}

// getJSON fetches rawURL and decodes its JSON body into out.
func (c *RegistryClient) getJSON(ctx context.Context, source Source, rawURL string, timeout time.Duration, notFound *RegistryError, out any) error {
	resp, reqCtx, cancel, err := c.start(ctx, source, rawURL, timeout)
	if err != nil {
		return err
	}
	defer cancel()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransport(ctx, reqCtx, err)
	}

	if rerr := classifyStatus(source, resp.StatusCode, resp.Header, body, notFound); rerr != nil {
		return rerr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return NewRegistryError(ErrParse,
			fmt.Sprintf("invalid JSON from source %s: %v", source.Name, err))
	}
	return nil
}

// getText fetches rawURL as text, enforcing maxBytes while streaming.
// A body over the cap aborts the stream rather than truncating silently.
func (c *RegistryClient) getText(ctx context.Context, source Source, rawURL string, timeout time.Duration, notFound *RegistryError, maxBytes int64) (string, error) {
	resp, reqCtx, cancel, err := c.start(ctx, source, rawURL, timeout)
	if err != nil {
		return "", err
	}
	defer cancel()
	defer resp.Body.Close()

	if rerr := classifyStatus(source, resp.StatusCode, resp.Header, nil, notFound); rerr != nil {
		return "", rerr
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return "", classifyTransport(ctx, reqCtx, err)
	}
	if int64(len(data)) > maxBytes {
		return "", NewRegistryError(ErrAPI,
			fmt.Sprintf("content exceeds %d KiB; view it on the registry's website", maxBytes/1024))
	}
	return string(data), nil
}

// truncateBody keeps error messages readable when a registry returns a
// large error page.
func truncateBody(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
