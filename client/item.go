package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jacentio/wicker/wire"
)

// GetItemInput defines parameters for retrieving a single item.
type GetItemInput struct {
	// TableName is the table to read from.
	TableName string

	// Key is the full primary key of the item.
	Key map[string]any

	// ConsistentRead requests a strongly consistent read.
	ConsistentRead bool
}

// GetItem retrieves a single item by primary key. A missing item returns
// (nil, nil).
func (c *Client) GetItem(ctx context.Context, input GetItemInput) (map[string]any, error) {
	key, err := wire.EncodeDocument(input.Key)
	if err != nil {
		return nil, err
	}

	raw, err := c.Do(ctx, "GetItem", struct {
		TableName      string
		Key            wire.Document
		ConsistentRead bool `json:",omitempty"`
	}{input.TableName, key, input.ConsistentRead})
	if err != nil {
		return nil, err
	}

	var out struct {
		Item wire.Document
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("wicker: decode GetItem response: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}
	return wire.DecodeDocument(out.Item)
}

// PutItemInput defines parameters for writing a single item.
type PutItemInput struct {
	// TableName is the table to write to.
	TableName string

	// Item is the full item, replacing any existing item with the same key.
	Item map[string]any

	// ConditionExpression optionally guards the write.
	ConditionExpression string

	// ExpressionAttributeNames maps expression name placeholders.
	ExpressionAttributeNames map[string]string

	// ExpressionAttributeValues maps expression value placeholders, as
	// native values.
	ExpressionAttributeValues map[string]any
}

// PutItem writes a single item.
func (c *Client) PutItem(ctx context.Context, input PutItemInput) error {
	item, err := wire.EncodeDocument(input.Item)
	if err != nil {
		return err
	}
	values, err := encodeExprValues(input.ExpressionAttributeValues)
	if err != nil {
		return err
	}

	_, err = c.Do(ctx, "PutItem", struct {
		TableName                 string
		Item                      wire.Document
		ConditionExpression       string            `json:",omitempty"`
		ExpressionAttributeNames  map[string]string `json:",omitempty"`
		ExpressionAttributeValues wire.Document     `json:",omitempty"`
	}{input.TableName, item, input.ConditionExpression, input.ExpressionAttributeNames, values})
	return err
}

// DeleteItemInput defines parameters for deleting a single item.
type DeleteItemInput struct {
	TableName string
	Key       map[string]any

	// ConditionExpression optionally guards the delete.
	ConditionExpression string

	ExpressionAttributeNames  map[string]string
	ExpressionAttributeValues map[string]any
}

// DeleteItem deletes a single item by primary key.
func (c *Client) DeleteItem(ctx context.Context, input DeleteItemInput) error {
	key, err := wire.EncodeDocument(input.Key)
	if err != nil {
		return err
	}
	values, err := encodeExprValues(input.ExpressionAttributeValues)
	if err != nil {
		return err
	}

	_, err = c.Do(ctx, "DeleteItem", struct {
		TableName                 string
		Key                       wire.Document
		ConditionExpression       string            `json:",omitempty"`
		ExpressionAttributeNames  map[string]string `json:",omitempty"`
		ExpressionAttributeValues wire.Document     `json:",omitempty"`
	}{input.TableName, key, input.ConditionExpression, input.ExpressionAttributeNames, values})
	return err
}

// UpdateItemInput defines parameters for updating a single item.
type UpdateItemInput struct {
	TableName string
	Key       map[string]any

	// UpdateExpression describes the modification, e.g. "SET #n = :v".
	UpdateExpression string

	// ConditionExpression optionally guards the update.
	ConditionExpression string

	ExpressionAttributeNames  map[string]string
	ExpressionAttributeValues map[string]any

	// ReturnValues selects which attributes the store echoes back,
	// e.g. "ALL_NEW". Empty returns none.
	ReturnValues string
}

// UpdateItem updates a single item. When input.ReturnValues requests it,
// the echoed attributes are decoded and returned.
func (c *Client) UpdateItem(ctx context.Context, input UpdateItemInput) (map[string]any, error) {
	key, err := wire.EncodeDocument(input.Key)
	if err != nil {
		return nil, err
	}
	values, err := encodeExprValues(input.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}

	raw, err := c.Do(ctx, "UpdateItem", struct {
		TableName                 string
		Key                       wire.Document
		UpdateExpression          string            `json:",omitempty"`
		ConditionExpression       string            `json:",omitempty"`
		ExpressionAttributeNames  map[string]string `json:",omitempty"`
		ExpressionAttributeValues wire.Document     `json:",omitempty"`
		ReturnValues              string            `json:",omitempty"`
	}{input.TableName, key, input.UpdateExpression, input.ConditionExpression, input.ExpressionAttributeNames, values, input.ReturnValues})
	if err != nil {
		return nil, err
	}

	var out struct {
		Attributes wire.Document
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("wicker: decode UpdateItem response: %w", err)
	}
	if out.Attributes == nil {
		return nil, nil
	}
	return wire.DecodeDocument(out.Attributes)
}

// QueryInput defines parameters for querying a table or index.
type QueryInput struct {
	TableName string

	// IndexName is the optional secondary index to query.
	IndexName string

	// KeyConditionExpression is the key condition, e.g. "pk = :pk".
	KeyConditionExpression string

	// FilterExpression is an optional post-read filter.
	FilterExpression string

	ExpressionAttributeNames  map[string]string
	ExpressionAttributeValues map[string]any

	// Limit caps the number of evaluated items (0 = no limit).
	Limit int32

	// ScanIndexForward determines sort order; nil leaves the store default.
	ScanIndexForward *bool

	// ExclusiveStartKey resumes a paginated read.
	ExclusiveStartKey map[string]any

	ConsistentRead bool
}

// QueryOutput is one page of query or scan results.
type QueryOutput struct {
	// Items are the decoded items, in store order.
	Items []map[string]any

	// Count is the number of items returned.
	Count int

	// LastEvaluatedKey, when non-nil, resumes the next page.
	LastEvaluatedKey map[string]any
}

// Query reads one page of items matching a key condition.
func (c *Client) Query(ctx context.Context, input QueryInput) (*QueryOutput, error) {
	values, err := encodeExprValues(input.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}
	startKey, err := encodeExprValues(input.ExclusiveStartKey)
	if err != nil {
		return nil, err
	}

	raw, err := c.Do(ctx, "Query", struct {
		TableName                 string
		IndexName                 string            `json:",omitempty"`
		KeyConditionExpression    string            `json:",omitempty"`
		FilterExpression          string            `json:",omitempty"`
		ExpressionAttributeNames  map[string]string `json:",omitempty"`
		ExpressionAttributeValues wire.Document     `json:",omitempty"`
		Limit                     int32             `json:",omitempty"`
		ScanIndexForward          *bool             `json:",omitempty"`
		ExclusiveStartKey         wire.Document     `json:",omitempty"`
		ConsistentRead            bool              `json:",omitempty"`
	}{input.TableName, input.IndexName, input.KeyConditionExpression, input.FilterExpression,
		input.ExpressionAttributeNames, values, input.Limit, input.ScanIndexForward, startKey, input.ConsistentRead})
	if err != nil {
		return nil, err
	}
	return decodePage(raw, "Query")
}

// ScanInput defines parameters for a full table or index scan.
type ScanInput struct {
	TableName string
	IndexName string

	FilterExpression string

	ExpressionAttributeNames  map[string]string
	ExpressionAttributeValues map[string]any

	Limit             int32
	ExclusiveStartKey map[string]any
	ConsistentRead    bool
}

// Scan reads one page of a table scan.
func (c *Client) Scan(ctx context.Context, input ScanInput) (*QueryOutput, error) {
	values, err := encodeExprValues(input.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}
	startKey, err := encodeExprValues(input.ExclusiveStartKey)
	if err != nil {
		return nil, err
	}

	raw, err := c.Do(ctx, "Scan", struct {
		TableName                 string
		IndexName                 string            `json:",omitempty"`
		FilterExpression          string            `json:",omitempty"`
		ExpressionAttributeNames  map[string]string `json:",omitempty"`
		ExpressionAttributeValues wire.Document     `json:",omitempty"`
		Limit                     int32             `json:",omitempty"`
		ExclusiveStartKey         wire.Document     `json:",omitempty"`
		ConsistentRead            bool              `json:",omitempty"`
	}{input.TableName, input.IndexName, input.FilterExpression,
		input.ExpressionAttributeNames, values, input.Limit, startKey, input.ConsistentRead})
	if err != nil {
		return nil, err
	}
	return decodePage(raw, "Scan")
}

// decodePage decodes the shared Query/Scan response shape.
func decodePage(raw json.RawMessage, operation string) (*QueryOutput, error) {
	var out struct {
		Items            []wire.Document
		Count            int
		LastEvaluatedKey wire.Document
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("wicker: decode %s response: %w", operation, err)
	}

	items, err := wire.DecodeDocuments(out.Items)
	if err != nil {
		return nil, err
	}
	page := &QueryOutput{Items: items, Count: out.Count}
	if out.LastEvaluatedKey != nil {
		page.LastEvaluatedKey, err = wire.DecodeDocument(out.LastEvaluatedKey)
		if err != nil {
			return nil, err
		}
	}
	return page, nil
}

// encodeExprValues encodes a native value map, passing nil through so
// optional fields can be omitted.
func encodeExprValues(values map[string]any) (wire.Document, error) {
	if values == nil {
		return nil, nil
	}
	return wire.EncodeDocument(values)
}
