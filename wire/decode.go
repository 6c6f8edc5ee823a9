package wire

import (
	"errors"
	"fmt"
	"strconv"
)

// Decode converts a tagged wire value back to its native representation.
// Tag presence, not truthiness, selects the branch: a BOOL carrying false
// still decodes as a boolean. A value with no recognized tag fails with an
// [*IncompatibleFieldError].
func Decode(av AttributeValue) (any, error) {
	switch {
	case av.S != nil:
		return *av.S, nil
	case av.SS != nil:
		out := make([]any, len(av.SS))
		for i, s := range av.SS {
			out[i] = s
		}
		return out, nil
	case av.N != nil:
		return parseNumber(*av.N)
	case av.NS != nil:
		out := make([]any, len(av.NS))
		for i, s := range av.NS {
			n, err := parseNumber(s)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case av.BOOL != nil:
		return *av.BOOL, nil
	case av.NULL != nil:
		return nil, nil
	case av.M != nil:
		return DecodeDocument(av.M)
	case av.L != nil:
		out := make([]any, len(av.L))
		for i, el := range av.L {
			v, err := Decode(el)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	default:
		return nil, &IncompatibleFieldError{}
	}
}

// DecodeDocument converts a wire document to a native map, decoding each
// entry recursively. An entry with no recognized tag fails the whole
// conversion with an error naming the entry's key.
func DecodeDocument(doc Document) (map[string]any, error) {
	out := make(map[string]any, len(doc))
	for k, av := range doc {
		v, err := Decode(av)
		if err != nil {
			var fe *IncompatibleFieldError
			if errors.As(err, &fe) && fe.Field == "" {
				return nil, &IncompatibleFieldError{Field: k}
			}
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// DecodeDocuments converts an ordered sequence of wire documents to native
// maps, preserving order. The first failing document aborts the whole
// conversion.
func DecodeDocuments(docs []Document) ([]map[string]any, error) {
	out := make([]map[string]any, len(docs))
	for i, doc := range docs {
		m, err := DecodeDocument(doc)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

// parseNumber parses a wire decimal string with floating semantics.
func parseNumber(s string) (float64, error) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &IncompatibleFieldError{Field: fmt.Sprintf("number %q", s)}
	}
	return n, nil
}
