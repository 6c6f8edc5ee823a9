package client

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/google/uuid"

	"github.com/jacentio/wicker/internal/retry"
)

const (
	// targetPrefix is the service version token of the operation-target
	// header; the full header value is "<targetPrefix>.<OperationName>".
	targetPrefix = "DynamoDB_20120810"

	contentType = "application/x-amz-json-1.0"
	signingName = "dynamodb"
)

// Client executes operations against the store endpoint. It is safe for
// concurrent use; in-flight calls share the configured HTTP client's
// connection pool.
type Client struct {
	config Config
	signer *v4.Signer
	sleep  func(context.Context, time.Duration) error

	mu       sync.Mutex
	consumed float64
}

// New creates a Client. Missing config fields are defaulted; see [Config].
func New(config Config) *Client {
	config.validate()
	return &Client{
		config: config,
		signer: v4.NewSigner(),
		sleep:  sleepContext,
	}
}

// ConsumedUnits returns the running total of capacity units reported by
// every operation this client has completed successfully.
func (c *Client) ConsumedUnits() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.consumed
}

// Do executes one logical operation: it serializes the payload, performs
// signed attempts against the endpoint, and retries retryable failures
// until success, a terminal failure, or the retry ceiling.
//
// Attempts within a call are strictly sequential; retry delays wait on a
// timer and honor ctx cancellation. A non-2xx outcome surfaces as a
// [*ServiceError]; transport, signing, and body-parse failures surface
// as-is and are never retried.
func (c *Client) Do(ctx context.Context, operation string, payload any) (json.RawMessage, error) {
	body, err := encodeBody(payload)
	if err != nil {
		return nil, err
	}

	invocationID := uuid.NewString()
	policy := retry.Policy{Limit: c.config.Retries}

	for attempt := 0; ; attempt++ {
		out, err := c.attempt(ctx, operation, body, invocationID, attempt)
		if err == nil {
			c.recordCapacity(out)
			return out, nil
		}

		var se *ServiceError
		if !errors.As(err, &se) {
			return nil, err
		}
		ok, delay := policy.Decide(classify(se), attempt)
		if !ok {
			return nil, err
		}

		c.config.Logger.Debug("retrying operation",
			"operation", operation,
			"attempt", attempt,
			"code", se.Code,
			"delay", delay,
		)
		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

// attempt performs a single signed round trip.
func (c *Client) attempt(ctx context.Context, operation string, body []byte, invocationID string, attempt int) (json.RawMessage, error) {
	if c.config.Credentials == nil {
		return nil, ErrMissingCredentials
	}
	creds, err := c.config.Credentials.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("wicker: retrieve credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("wicker: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Amz-Target", targetPrefix+"."+operation)
	req.Header.Set("Amz-Sdk-Invocation-Id", invocationID)
	req.Header.Set("Amz-Sdk-Request", fmt.Sprintf("attempt=%d; max=%d", attempt+1, c.config.Retries+1))

	// The signature is time-scoped, so each attempt re-signs with a fresh
	// timestamp.
	sum := sha256.Sum256(body)
	if err := c.signer.SignHTTP(ctx, creds, req, hex.EncodeToString(sum[:]), signingName, c.config.Region, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("wicker: sign request: %w", err)
	}

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wicker: %s: %w", operation, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("wicker: %s: read response: %w", operation, err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("wicker: %s: response body is not valid JSON", operation)
	}

	if resp.StatusCode >= 300 {
		return nil, classifyResponse(resp, raw)
	}
	return json.RawMessage(raw), nil
}

// encodeBody serializes the payload and appends the field requesting full
// consumed-capacity reporting, unless the payload set one itself.
func encodeBody(payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("wicker: marshal request: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("wicker: request payload must be a JSON object: %w", err)
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	if _, ok := fields["ReturnConsumedCapacity"]; !ok {
		fields["ReturnConsumedCapacity"] = json.RawMessage(`"TOTAL"`)
	}
	return json.Marshal(fields)
}

// classifyResponse builds a ServiceError from a non-2xx response body.
func classifyResponse(resp *http.Response, body []byte) *ServiceError {
	var fields struct {
		Type       string `json:"__type"`
		Message    string `json:"message"`
		AltMessage string `json:"Message"`
	}
	// Body is known-valid JSON; a shape mismatch just leaves fields empty.
	_ = json.Unmarshal(body, &fields)

	se := &ServiceError{
		StatusCode: resp.StatusCode,
		Code:       fields.Type,
		RequestID:  resp.Header.Get("X-Amzn-Requestid"),
	}
	if i := strings.LastIndex(fields.Type, "#"); i >= 0 {
		se.Code = fields.Type[i+1:]
	}
	se.Message = fields.Message
	if se.Message == "" {
		se.Message = fields.AltMessage
	}
	if se.Message == "" {
		se.Message = fields.Type
	}
	return se
}

func classify(se *ServiceError) retry.Class {
	switch {
	case se.ServerFault():
		return retry.ServerFault
	case se.Throttled():
		return retry.Throttle
	default:
		return retry.Terminal
	}
}

// recordCapacity accumulates the consumed-capacity figure reported on a
// successful response. Batch responses report one figure per table; those
// are summed before adding.
func (c *Client) recordCapacity(body json.RawMessage) {
	var single struct {
		ConsumedCapacity *capacityFigure `json:"ConsumedCapacity"`
	}
	if err := json.Unmarshal(body, &single); err == nil {
		if single.ConsumedCapacity != nil {
			c.addConsumed(single.ConsumedCapacity.CapacityUnits)
		}
		return
	}

	var multi struct {
		ConsumedCapacity []capacityFigure `json:"ConsumedCapacity"`
	}
	if err := json.Unmarshal(body, &multi); err == nil {
		total := 0.0
		for _, f := range multi.ConsumedCapacity {
			total += f.CapacityUnits
		}
		if total > 0 {
			c.addConsumed(total)
		}
	}
}

type capacityFigure struct {
	TableName     string  `json:"TableName"`
	CapacityUnits float64 `json:"CapacityUnits"`
}

func (c *Client) addConsumed(units float64) {
	c.mu.Lock()
	c.consumed += units
	c.mu.Unlock()
}

// sleepContext waits for d without outliving ctx.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
