package wire

import "encoding/json"

// AttributeValue is the store's tagged representation of a single value.
// Exactly one tag is populated per value; numeric payloads are always
// carried as decimal strings.
type AttributeValue struct {
	// S is a text string.
	S *string `json:"S,omitempty"`

	// N is a number, serialized as a decimal string.
	N *string `json:"N,omitempty"`

	// BOOL is a boolean. Presence is what matters: a populated false is
	// still a boolean value.
	BOOL *bool `json:"BOOL,omitempty"`

	// NULL marks an explicit null value.
	NULL *bool `json:"NULL,omitempty"`

	// SS is a homogeneous list of strings.
	SS []string `json:"SS,omitempty"`

	// NS is a homogeneous list of numbers, each a decimal string.
	NS []string `json:"NS,omitempty"`

	// L is a heterogeneous list; each element is itself a tagged value.
	L []AttributeValue `json:"L,omitempty"`

	// M is a map of text keys to tagged values.
	M map[string]AttributeValue `json:"M,omitempty"`
}

// Document is a full attribute map: the unit exchanged with the store as
// an item, a key, or an attribute set.
type Document map[string]AttributeValue

// MarshalJSON emits the single populated tag. omitempty on the struct
// fields would drop a populated-but-empty SS, NS, L, or M — and with it
// the value's type — so the tag is selected by presence here instead.
func (av AttributeValue) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 1)
	switch {
	case av.S != nil:
		out["S"] = *av.S
	case av.SS != nil:
		out["SS"] = av.SS
	case av.N != nil:
		out["N"] = *av.N
	case av.NS != nil:
		out["NS"] = av.NS
	case av.BOOL != nil:
		out["BOOL"] = *av.BOOL
	case av.NULL != nil:
		out["NULL"] = *av.NULL
	case av.M != nil:
		out["M"] = av.M
	case av.L != nil:
		out["L"] = av.L
	}
	return json.Marshal(out)
}
