package mygo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/ziedsaddem/hotelbooking/internal/apperr"
	"github.com/ziedsaddem/hotelbooking/internal/obs"
)

const (
	serviceName      = "mygo"
	errorBodyPreview = 512
)

// retryableStatuses are the only responses worth another attempt. Anything
// else non-2xx is terminal on first sight.
var retryableStatuses = map[int]bool{
	http.StatusTooManyRequests:    true,
	http.StatusBadGateway:         true,
	http.StatusServiceUnavailable: true,
	http.StatusGatewayTimeout:     true,
}

// transport issues JSON POSTs to the supplier with per-attempt timeout,
// classified retries, and credential-redacting logs. It holds only
// read-only configuration; every call owns its own retrier, so concurrent
// use needs no locking.
type transport struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	policy  RetryPolicy
	metrics *obs.Metrics
}

func newTransport(baseURL string, timeout time.Duration, policy RetryPolicy, metrics *obs.Metrics) *transport {
	return &transport{
		baseURL: baseURL,
		client:  &http.Client{},
		timeout: timeout,
		policy:  policy,
		metrics: metrics,
	}
}

// post sends payload to path and returns the raw response body. Timeouts
// are terminal after a single attempt: retrying a call that already ran the
// full deadline only compounds the slowness upstream is exhibiting.
func (t *transport) post(ctx context.Context, operation, path string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperr.NewValidation("request payload is not serializable: " + err.Error())
	}
	redacted := redactPayload(body)

	r := newRetrier(t.policy)
	var lastErr error

	for r.start() {
		respBody, retryable, attemptErr := t.attempt(ctx, operation, path, body, redacted, r.attempt)
		if attemptErr == nil {
			r.succeed()
			return respBody, nil
		}
		lastErr = attemptErr

		if !r.fail(retryable) {
			break
		}
		log.Printf("mygo: %s attempt %d/%d failed, retrying in %s: %v",
			operation, r.attempt, t.policy.MaxAttempts, r.nextBackoff, attemptErr)
		if t.metrics != nil {
			t.metrics.IncSupplierRetry(operation)
		}
		if err := r.wait(ctx); err != nil {
			return nil, apperr.NewTimeout(serviceName, "cancelled while waiting to retry", err)
		}
	}

	if r.exhausted() && lastErr != nil {
		log.Printf("mygo: %s failed after %d attempt(s): %v", operation, r.attempt, lastErr)
	}
	return nil, lastErr
}

// attempt runs one bounded HTTP call. The second return value reports
// whether the failure is worth another attempt.
func (t *transport) attempt(ctx context.Context, operation, path string, body []byte, redacted string, attempt int) (json.RawMessage, bool, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	log.Printf("mygo: %s attempt %d POST %s payload=%s", operation, attempt, path, redacted)

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, t.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, false, apperr.NewValidation("invalid supplier request: " + err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := t.client.Do(req)
	if t.metrics != nil {
		t.metrics.ObserveSupplierLatency(operation, time.Since(start).Seconds())
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, apperr.NewTimeout(serviceName, "request cancelled", ctx.Err())
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, false, apperr.NewTimeout(serviceName,
				fmt.Sprintf("request exceeded %s deadline", t.timeout), err)
		}
		// Connection-level failures are transient by assumption.
		return nil, true, apperr.NewExternalService(serviceName, "request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, apperr.NewExternalService(serviceName, "reading response failed", err)
	}

	log.Printf("mygo: %s attempt %d response status=%d content-type=%s",
		operation, attempt, resp.StatusCode, resp.Header.Get("Content-Type"))
	if t.metrics != nil {
		t.metrics.IncSupplierRequest(operation, resp.StatusCode)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return respBody, false, nil

	case resp.StatusCode == http.StatusBadRequest:
		// The supplier echoing 400 means our caller sent a defective
		// request; masking that as a 502 would hide the real culprit.
		log.Printf("mygo: %s rejected as invalid: %s", operation, previewBody(respBody, errorBodyPreview))
		return nil, false, apperr.NewValidation(
			fmt.Sprintf("supplier rejected request (status 400): %s", previewBody(respBody, errorBodyPreview)))

	case retryableStatuses[resp.StatusCode]:
		log.Printf("mygo: %s upstream status %d: %s", operation, resp.StatusCode, previewBody(respBody, errorBodyPreview))
		return nil, true, apperr.NewExternalService(serviceName,
			fmt.Sprintf("upstream returned status %d", resp.StatusCode), nil)

	default:
		log.Printf("mygo: %s terminal status %d: %s", operation, resp.StatusCode, previewBody(respBody, errorBodyPreview))
		return nil, false, apperr.NewExternalService(serviceName,
			fmt.Sprintf("upstream returned status %d", resp.StatusCode), nil)
	}
}
