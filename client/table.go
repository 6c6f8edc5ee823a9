package client

import (
	"context"
	"encoding/json"
	"fmt"
)

// Table administration operations are plain pass-throughs of the execution
// engine: payloads and responses cross as raw JSON with no independent
// logic on this side.

// CreateTable creates a table from a raw table description.
func (c *Client) CreateTable(ctx context.Context, input any) (json.RawMessage, error) {
	return c.Do(ctx, "CreateTable", input)
}

// UpdateTable updates a table from a raw table description.
func (c *Client) UpdateTable(ctx context.Context, input any) (json.RawMessage, error) {
	return c.Do(ctx, "UpdateTable", input)
}

// DescribeTable returns the raw description of a table.
func (c *Client) DescribeTable(ctx context.Context, table string) (json.RawMessage, error) {
	return c.Do(ctx, "DescribeTable", struct {
		TableName string
	}{table})
}

// DeleteTable deletes a table and returns its final raw description.
func (c *Client) DeleteTable(ctx context.Context, table string) (json.RawMessage, error) {
	return c.Do(ctx, "DeleteTable", struct {
		TableName string
	}{table})
}

// ListTables returns all table names, following pagination to the end.
func (c *Client) ListTables(ctx context.Context) ([]string, error) {
	var names []string
	var start string

	for {
		raw, err := c.Do(ctx, "ListTables", struct {
			ExclusiveStartTableName string `json:",omitempty"`
		}{start})
		if err != nil {
			return nil, err
		}

		var out struct {
			TableNames             []string
			LastEvaluatedTableName string
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("wicker: decode ListTables response: %w", err)
		}
		names = append(names, out.TableNames...)
		if out.LastEvaluatedTableName == "" {
			return names, nil
		}
		start = out.LastEvaluatedTableName
	}
}
