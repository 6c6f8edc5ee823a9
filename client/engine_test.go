package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// newTestClient points a Client at an httptest server and replaces the
// retry sleep with a recorder, so backoff is asserted without waiting.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *[]time.Duration) {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	u, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatalf("parse test server url: %v", err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatalf("split test server host: %v", err)
	}
	port, _ := strconv.Atoi(portStr)

	c := New(Config{
		Host:        host,
		Port:        port,
		DisableTLS:  true,
		Credentials: StaticCredentials("AKIDEXAMPLE", "secret"),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	delays := &[]time.Duration{}
	c.sleep = func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return c, delays
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("X-Amzn-Requestid", "req-123")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"__type":%q,"message":%q}`, errType, message)
}

// --- Request Shape Tests ---

func TestDo_RequestShape(t *testing.T) {
	var gotTarget, gotContentType, gotAuth, gotInvocation string
	var gotBody []byte

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotTarget = r.Header.Get("X-Amz-Target")
		gotContentType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		gotInvocation = r.Header.Get("Amz-Sdk-Invocation-Id")
		gotBody, _ = io.ReadAll(r.Body)
		fmt.Fprint(w, `{}`)
	})

	_, err := c.Do(context.Background(), "DescribeTable", struct{ TableName string }{"t"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotTarget != "DynamoDB_20120810.DescribeTable" {
		t.Errorf("unexpected target header: %q", gotTarget)
	}
	if gotContentType != "application/x-amz-json-1.0" {
		t.Errorf("unexpected content type: %q", gotContentType)
	}
	if !strings.HasPrefix(gotAuth, "AWS4-HMAC-SHA256") {
		t.Errorf("expected SigV4 authorization header, got %q", gotAuth)
	}
	if gotInvocation == "" {
		t.Error("expected an invocation id header")
	}

	var body map[string]any
	if err := json.Unmarshal(gotBody, &body); err != nil {
		t.Fatalf("request body not JSON: %v", err)
	}
	if body["TableName"] != "t" {
		t.Errorf("expected TableName 't', got %v", body["TableName"])
	}
	if body["ReturnConsumedCapacity"] != "TOTAL" {
		t.Errorf("expected ReturnConsumedCapacity TOTAL, got %v", body["ReturnConsumedCapacity"])
	}
}

// --- Retry Tests ---

func TestDo_ServerFaultExhaustsBudget(t *testing.T) {
	var attempts atomic.Int32
	c, delays := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		writeError(w, 503, "com.amazon.coral.service#InternalServerError", "server is sad")
	})

	_, err := c.Do(context.Background(), "GetItem", struct{}{})

	var se *ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("expected ServiceError, got %v", err)
	}
	if se.StatusCode != 503 {
		t.Errorf("expected status 503, got %d", se.StatusCode)
	}
	if got := attempts.Load(); got != 4 {
		t.Errorf("expected retry limit + 1 = 4 attempts, got %d", got)
	}
	expected := []time.Duration{100 * time.Millisecond, 400 * time.Millisecond, 1600 * time.Millisecond}
	if len(*delays) != len(expected) {
		t.Fatalf("expected %d delays, got %v", len(expected), *delays)
	}
	for i, d := range expected {
		if (*delays)[i] != d {
			t.Errorf("delay %d: expected %v, got %v", i, d, (*delays)[i])
		}
	}
}

func TestDo_ServerFaultEventualSuccess(t *testing.T) {
	var attempts atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			writeError(w, 503, "com.amazon.coral.service#InternalServerError", "transient")
			return
		}
		fmt.Fprint(w, `{}`)
	})

	if _, err := c.Do(context.Background(), "GetItem", struct{}{}); err != nil {
		t.Fatalf("expected success after transient faults, got %v", err)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("expected success on attempt index 2 (3 tries), got %d tries", got)
	}
}

func TestDo_ThrottleImmediateThenJittered(t *testing.T) {
	var attempts atomic.Int32
	c, delays := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			writeError(w, 400, "com.amazonaws.dynamodb.v20120810#"+ErrCodeThroughputExceeded, "slow down")
			return
		}
		fmt.Fprint(w, `{}`)
	})

	if _, err := c.Do(context.Background(), "PutItem", struct{}{}); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(*delays) != 2 {
		t.Fatalf("expected 2 scheduled delays, got %v", *delays)
	}
	if (*delays)[0] != 0 {
		t.Errorf("first throttle retry must be immediate, got %v", (*delays)[0])
	}
	if (*delays)[1] < 25*time.Millisecond || (*delays)[1] >= 50*time.Millisecond {
		t.Errorf("second throttle delay %v outside [25ms, 50ms)", (*delays)[1])
	}
}

func TestDo_ClientErrorNotRetried(t *testing.T) {
	var attempts atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		writeError(w, 400, "com.amazon.coral.validate#ValidationException", "bad input")
	})

	_, err := c.Do(context.Background(), "PutItem", struct{}{})

	var se *ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("expected ServiceError, got %v", err)
	}
	if se.Code != "ValidationException" {
		t.Errorf("expected code ValidationException, got %q", se.Code)
	}
	if se.Message != "bad input" {
		t.Errorf("expected message 'bad input', got %q", se.Message)
	}
	if se.RequestID != "req-123" {
		t.Errorf("expected correlation id req-123, got %q", se.RequestID)
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("client errors must not retry, got %d attempts", got)
	}
}

func TestDo_ParseFailureNotRetried(t *testing.T) {
	var attempts atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		// Retryable status, but the body is garbage: a malformed body is
		// a non-transient problem and must surface immediately.
		w.WriteHeader(503)
		fmt.Fprint(w, `<html>backend exploded</html>`)
	})

	_, err := c.Do(context.Background(), "GetItem", struct{}{})
	if err == nil {
		t.Fatal("expected error")
	}
	var se *ServiceError
	if errors.As(err, &se) {
		t.Fatalf("parse failure must not classify as a service error: %v", err)
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("parse failures must not retry, got %d attempts", got)
	}
}

type failingTransport struct {
	calls atomic.Int32
}

func (f *failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	f.calls.Add(1)
	return nil, errors.New("connection refused")
}

func TestDo_TransportErrorNotRetried(t *testing.T) {
	transport := &failingTransport{}
	c := New(Config{
		Host:        "localhost",
		DisableTLS:  true,
		Credentials: StaticCredentials("AKIDEXAMPLE", "secret"),
		HTTPClient:  &http.Client{Transport: transport},
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	_, err := c.Do(context.Background(), "GetItem", struct{}{})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := transport.calls.Load(); got != 1 {
		t.Errorf("transport errors must not retry, got %d attempts", got)
	}
}

func TestDo_MissingCredentials(t *testing.T) {
	c := New(Config{Host: "localhost"})
	_, err := c.Do(context.Background(), "GetItem", struct{}{})
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

// --- Consumed Capacity Tests ---

func TestConsumedUnits_Accumulates(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			fmt.Fprint(w, `{"ConsumedCapacity":{"TableName":"t","CapacityUnits":3}}`)
			return
		}
		fmt.Fprint(w, `{"ConsumedCapacity":{"TableName":"t","CapacityUnits":5}}`)
	})

	for i := 0; i < 2; i++ {
		if _, err := c.Do(context.Background(), "GetItem", struct{}{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := c.ConsumedUnits(); got != 8 {
		t.Errorf("expected running total 8, got %v", got)
	}
}

func TestConsumedUnits_BatchListSummed(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ConsumedCapacity":[{"TableName":"a","CapacityUnits":2},{"TableName":"b","CapacityUnits":2.5}]}`)
	})

	if _, err := c.Do(context.Background(), "BatchGetItem", struct{}{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.ConsumedUnits(); got != 4.5 {
		t.Errorf("expected summed total 4.5, got %v", got)
	}
}

func TestConsumedUnits_AbsentFigureIgnored(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	if _, err := c.Do(context.Background(), "GetItem", struct{}{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.ConsumedUnits(); got != 0 {
		t.Errorf("expected total 0, got %v", got)
	}
}
