package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jacentio/wicker/wire"
)

// BatchGetRequest names the keys to fetch from one table.
type BatchGetRequest struct {
	// Keys are the full primary keys to fetch.
	Keys []map[string]any

	// ConsistentRead requests strongly consistent reads for this table.
	ConsistentRead bool
}

// BatchGetOutput is the result of a BatchGetItem call.
type BatchGetOutput struct {
	// Responses holds the decoded items per table.
	Responses map[string][]map[string]any

	// UnprocessedKeys echoes, untouched, the keys the store did not
	// process. Resubmitting them is the caller's responsibility.
	UnprocessedKeys json.RawMessage
}

// BatchGetItem fetches items from one or more tables in a single call.
func (c *Client) BatchGetItem(ctx context.Context, requests map[string]BatchGetRequest) (*BatchGetOutput, error) {
	type tableRequest struct {
		Keys           []wire.Document
		ConsistentRead bool `json:",omitempty"`
	}

	requestItems := make(map[string]tableRequest, len(requests))
	for table, req := range requests {
		tr := tableRequest{ConsistentRead: req.ConsistentRead}
		for _, key := range req.Keys {
			doc, err := wire.EncodeDocument(key)
			if err != nil {
				return nil, err
			}
			tr.Keys = append(tr.Keys, doc)
		}
		requestItems[table] = tr
	}

	raw, err := c.Do(ctx, "BatchGetItem", struct {
		RequestItems map[string]tableRequest
	}{requestItems})
	if err != nil {
		return nil, err
	}

	var out struct {
		Responses       map[string][]wire.Document
		UnprocessedKeys json.RawMessage
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("wicker: decode BatchGetItem response: %w", err)
	}

	result := &BatchGetOutput{UnprocessedKeys: unprocessedEcho(out.UnprocessedKeys)}
	if len(out.Responses) > 0 {
		result.Responses = make(map[string][]map[string]any, len(out.Responses))
		for table, docs := range out.Responses {
			items, err := wire.DecodeDocuments(docs)
			if err != nil {
				return nil, err
			}
			result.Responses[table] = items
		}
	}
	return result, nil
}

// BatchWriteRequest names the puts and deletes for one table.
type BatchWriteRequest struct {
	// PutItems are full items to write.
	PutItems []map[string]any

	// DeleteKeys are full primary keys to delete.
	DeleteKeys []map[string]any
}

// BatchWriteOutput is the result of a BatchWriteItem call.
type BatchWriteOutput struct {
	// UnprocessedItems echoes, untouched, the writes the store did not
	// process. Resubmitting them is the caller's responsibility.
	UnprocessedItems json.RawMessage
}

// BatchWriteItem puts and deletes items across one or more tables in a
// single call. Partially processed batches are not retried: the store's
// UnprocessedItems echo is surfaced unchanged.
func (c *Client) BatchWriteItem(ctx context.Context, requests map[string]BatchWriteRequest) (*BatchWriteOutput, error) {
	type putRequest struct {
		Item wire.Document
	}
	type deleteRequest struct {
		Key wire.Document
	}
	type writeRequest struct {
		PutRequest    *putRequest    `json:",omitempty"`
		DeleteRequest *deleteRequest `json:",omitempty"`
	}

	requestItems := make(map[string][]writeRequest, len(requests))
	for table, req := range requests {
		var writes []writeRequest
		for _, item := range req.PutItems {
			doc, err := wire.EncodeDocument(item)
			if err != nil {
				return nil, err
			}
			writes = append(writes, writeRequest{PutRequest: &putRequest{Item: doc}})
		}
		for _, key := range req.DeleteKeys {
			doc, err := wire.EncodeDocument(key)
			if err != nil {
				return nil, err
			}
			writes = append(writes, writeRequest{DeleteRequest: &deleteRequest{Key: doc}})
		}
		requestItems[table] = writes
	}

	raw, err := c.Do(ctx, "BatchWriteItem", struct {
		RequestItems map[string][]writeRequest
	}{requestItems})
	if err != nil {
		return nil, err
	}

	var out struct {
		UnprocessedItems json.RawMessage
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("wicker: decode BatchWriteItem response: %w", err)
	}
	return &BatchWriteOutput{UnprocessedItems: unprocessedEcho(out.UnprocessedItems)}, nil
}

// unprocessedEcho normalizes an absent or empty Unprocessed* echo to nil
// so callers can test for leftovers with a single nil check.
func unprocessedEcho(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "{}" || string(raw) == "null" {
		return nil
	}
	return raw
}
