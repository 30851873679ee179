package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"road-issue-service/internal/platform/obs"
	"strings"
	"time"
)

// ORS directions error codes that mean "no path", not a failed request.
const (
	orsCodePointNotFound = 2010
	orsCodeRouteNotFound = 2009
)

const (
	orsMaxAttempts    = 4
	orsInitialBackoff = 200 * time.Millisecond
	orsMaxErrorBody   = 64 << 10
)

// orsError is a non-2xx ORS response. Bodies usually look like
// {"error":{"code":2009,"message":"Route could not be found ..."}}
// but some gateways answer {"error":"..."} or plain text.
type orsError struct {
	Status  int
	Code    int
	Message string
}

func (e *orsError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("ors status %d code %d: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("ors status %d: %s", e.Status, e.Message)
}

func (e *orsError) noRoute() bool {
	return e.Status == http.StatusNotFound ||
		e.Code == orsCodeRouteNotFound ||
		e.Code == orsCodePointNotFound
}

func (e *orsError) temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

func parseORSError(status int, body []byte) *orsError {
	e := &orsError{Status: status, Message: strings.TrimSpace(string(body))}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		return e
	}

	var detail struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &detail); err == nil {
		e.Code = detail.Code
		if detail.Message != "" {
			e.Message = detail.Message
		}
		return e
	}

	var msg string
	if err := json.Unmarshal(envelope.Error, &msg); err == nil && msg != "" {
		e.Message = msg
	}
	return e
}

// post sends payload to endpoint, retrying network errors, 429 and 5xx with
// exponential backoff until attempts run out or ctx ends.
func (o *ORSDirectionsProvider) post(ctx context.Context, endpoint string, payload []byte) (*http.Response, error) {
	wait := orsInitialBackoff

	for attempt := 1; ; attempt++ {
		resp, err := o.send(ctx, endpoint, payload)
		if err == nil {
			return resp, nil
		}
		if attempt == orsMaxAttempts || !retryable(err) {
			return nil, err
		}

		log.Printf("req_id=%s op=ors.retry attempt=%d wait=%s err=%v", obs.RequestID(ctx), attempt, wait, err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		wait *= 2
	}
}

func (o *ORSDirectionsProvider) send(ctx context.Context, endpoint string, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/geo+json, application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < http.StatusMultipleChoices {
		return resp, nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, orsMaxErrorBody))
	return nil, parseORSError(resp.StatusCode, body)
}

func retryable(err error) bool {
	var oe *orsError
	if errors.As(err, &oe) {
		return oe.temporary()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
