package image

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultEndpoint is the base URL both endpoint families hang off of.
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"

	// DefaultTimeout bounds the single outbound call. There is no retry; a
	// slow upstream turns into a timeout failure for this invocation.
	DefaultTimeout = 90 * time.Second
)

// postJSON issues the one outbound call an invocation is allowed. It maps
// every failure mode to a typed *Error: deadline to timeout, network faults
// to transport, and non-2xx statuses to upstream with the raw body attached.
func postJSON(ctx context.Context, client *http.Client, url, key string, payload any, timeout time.Duration) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Kind: KindUnexpected, Msg: err.Error()}
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindUnexpected, Msg: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", key)

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &Error{Kind: KindTimeout, Msg: "upstream call timed out"}
		}
		return nil, &Error{Kind: KindTransport, Msg: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Msg: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Kind:   KindUpstream,
			Msg:    fmt.Sprintf("upstream returned status %d", resp.StatusCode),
			Status: resp.StatusCode,
			Raw:    raw,
		}
	}
	return raw, nil
}
