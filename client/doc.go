// Package client is a low-level client for a DynamoDB-compatible store
// speaking the HTTP+JSON wire protocol.
//
// The [Client] owns the per-call pipeline: it serializes an operation name
// and payload, signs the request (SigV4, re-signed per attempt since the
// signature is time-scoped), sends it over the configured HTTP client, and
// classifies the outcome. Server faults (500/503) and throughput
// throttling retry with differentiated backoff; everything else surfaces
// immediately as a [*ServiceError] or a wrapped transport error.
//
// # Operations
//
// Item operations ([Client.GetItem], [Client.PutItem], [Client.Query],
// ...) accept and return native Go values, converted through the wire
// package. Batch operations return the store's UnprocessedKeys and
// UnprocessedItems echoes untouched: resubmission is the caller's call,
// never the client's. Table administration operations are raw
// pass-throughs. Anything not covered by a builder can be sent through
// [Client.Do] directly.
//
// # Consumed capacity
//
// Every request asks the store for full consumed-capacity reporting, and
// every successful response's figure (summed across batch sub-responses)
// accumulates into a per-Client total exposed by [Client.ConsumedUnits].
//
// # Configuration
//
//	c := client.New(client.Config{
//	    Region:      "eu-west-1",
//	    Credentials: client.StaticCredentials(accessKey, secretKey),
//	})
//	item, err := c.GetItem(ctx, client.GetItemInput{
//	    TableName: "sessions",
//	    Key:       map[string]any{"id": "sess-1"},
//	})
//
// Callers needing a deadline wrap ctx; the client enforces none beyond the
// retry ceiling.
package client
