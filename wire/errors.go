package wire

import "fmt"

// IncompatibleFieldError reports a value that has no representation in the
// wire tag set (encoding), or a wire value carrying no recognized tag
// (decoding). The conversion that produced it is void as a whole; callers
// must discard any partial result.
type IncompatibleFieldError struct {
	// Field names the offending key or describes the offending value.
	// Empty when the context offers no name, e.g. a bare scalar decode.
	Field string
}

func (e *IncompatibleFieldError) Error() string {
	if e.Field == "" {
		return "wicker: non-compatible field"
	}
	return fmt.Sprintf("wicker: non-compatible field: %s", e.Field)
}
