// Package wire converts between native Go values and the tagged attribute
// encoding of the DynamoDB JSON wire protocol.
//
// Native values are plain Go data: numbers, strings, bools, nil, []any
// lists, and map[string]any maps — the shapes encoding/json produces.
// [Encode] and [Decode] map them to and from [AttributeValue], the
// single-tag wire representation; [EncodeDocument] and [DecodeDocument] do
// the same for full attribute maps.
//
// # List classification
//
// A native list carries no tag of its own, so the encoder classifies it by
// scanning its elements:
//
//   - any nested map forces the heterogeneous L encoding
//   - otherwise any string forces the string-set SS encoding, with numeric
//     elements silently stringified
//   - otherwise (all numeric, or empty) the number-set NS encoding is used
//
// The dominance order L > SS > NS is load-bearing wire behavior: peers of
// this client depend on [1 "a" 2] arriving as the string set ["1" "a" "2"].
// Do not change it.
//
// # Failure
//
// Both directions abort on the first value that cannot be represented and
// return an [*IncompatibleFieldError]; no partially converted document is
// ever returned.
package wire
