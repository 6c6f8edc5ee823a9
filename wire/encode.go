package wire

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// List classification ranks. The element scan only ever upgrades the rank,
// so a single nested map forces L for the whole list, and a single string
// (with no map present) forces SS even when numeric elements remain. This
// dominance order is historical wire behavior and must be preserved.
const (
	listNS = iota
	listSS
	listL
)

// Encode converts a native value to its tagged wire representation.
//
// Numbers become N, strings S, bools BOOL, nil NULL, and maps M with every
// entry encoded recursively. Lists are classified by element scan; see the
// package documentation. Values of any other type fail with an
// [*IncompatibleFieldError].
func Encode(v any) (AttributeValue, error) {
	switch val := v.(type) {
	case nil:
		null := true
		return AttributeValue{NULL: &null}, nil
	case bool:
		b := val
		return AttributeValue{BOOL: &b}, nil
	case string:
		s := val
		return AttributeValue{S: &s}, nil
	case map[string]any:
		m, err := EncodeDocument(val)
		if err != nil {
			return AttributeValue{}, err
		}
		return AttributeValue{M: m}, nil
	case []any:
		return encodeList(val)
	default:
		if n, ok := numberString(v); ok {
			return AttributeValue{N: &n}, nil
		}
		return AttributeValue{}, &IncompatibleFieldError{Field: fmt.Sprintf("%T value %v", v, v)}
	}
}

// EncodeDocument converts a native map to a wire document, encoding each
// entry recursively. The first incompatible entry aborts the whole
// conversion.
func EncodeDocument(m map[string]any) (Document, error) {
	doc := make(Document, len(m))
	for k, v := range m {
		av, err := Encode(v)
		if err != nil {
			return nil, err
		}
		doc[k] = av
	}
	return doc, nil
}

// encodeList classifies a native list and encodes it under the winning
// tag. Elements outside {number, string, map} cannot disambiguate a list
// and fail the encode; in particular a nested list is rejected, never
// flattened or promoted to L.
func encodeList(list []any) (AttributeValue, error) {
	cls := listNS
	for _, el := range list {
		switch el.(type) {
		case map[string]any:
			cls = listL
		case string:
			if cls < listSS {
				cls = listSS
			}
		default:
			if _, ok := numberString(el); !ok {
				return AttributeValue{}, &IncompatibleFieldError{Field: fmt.Sprintf("%T list element %v", el, el)}
			}
		}
	}

	switch cls {
	case listL:
		out := make([]AttributeValue, len(list))
		for i, el := range list {
			av, err := Encode(el)
			if err != nil {
				return AttributeValue{}, err
			}
			out[i] = av
		}
		return AttributeValue{L: out}, nil
	case listSS:
		out := make([]string, len(list))
		for i, el := range list {
			if s, ok := el.(string); ok {
				out[i] = s
				continue
			}
			// Numbers inside a string-dominant list stringify silently.
			out[i], _ = numberString(el)
		}
		return AttributeValue{SS: out}, nil
	default:
		out := make([]string, len(list))
		for i, el := range list {
			out[i], _ = numberString(el)
		}
		return AttributeValue{NS: out}, nil
	}
}

// numberString renders any supported numeric type as the decimal string
// the wire format carries.
func numberString(v any) (string, bool) {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32), true
	case int:
		return strconv.Itoa(n), true
	case int8:
		return strconv.FormatInt(int64(n), 10), true
	case int16:
		return strconv.FormatInt(int64(n), 10), true
	case int32:
		return strconv.FormatInt(int64(n), 10), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint:
		return strconv.FormatUint(uint64(n), 10), true
	case uint8:
		return strconv.FormatUint(uint64(n), 10), true
	case uint16:
		return strconv.FormatUint(uint64(n), 10), true
	case uint32:
		return strconv.FormatUint(uint64(n), 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	case json.Number:
		return n.String(), true
	default:
		return "", false
	}
}
