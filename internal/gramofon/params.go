package gramofon

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Params is the open key-value payload of one call. The field set is defined
// by the appliance firmware, not by this client, so Params carries raw JSON
// text rather than a closed struct: fields this client does not recognize
// survive a round trip byte-for-byte.
//
// Params values are immutable; Set returns a new value, which makes them safe
// to share across the goroutines of a batch fan-out:
//
//	p := gramofon.Params{}.
//	    Set("ssid", "Home WiFi").
//	    Set("key", "secret").
//	    Set("encryption", "psk2")
type Params struct {
	// raw contains the JSON object being built
	raw string
	// err tracks the first error encountered during building
	err error
}

// ParamsFromJSON wraps an existing JSON object without reinterpreting it.
// Invalid JSON is reported by Err/String later, preserving chainability.
func ParamsFromJSON(raw string) Params {
	if raw != "" && !gjson.Valid(raw) {
		return Params{err: NewProtocolError("", "invalid params JSON", nil)}
	}
	return Params{raw: raw}
}

// Set sets a value at the specified JSON path and returns a new Params.
// The path uses gjson dot notation for nested fields. Once an error occurs,
// subsequent operations are no-ops that preserve the error.
func (p Params) Set(path string, value any) Params {
	if p.err != nil {
		return p
	}
	result, err := sjson.Set(p.raw, path, value)
	if err != nil {
		return Params{raw: p.raw, err: err}
	}
	return Params{raw: result}
}

// Get queries a field of the params object
func (p Params) Get(path string) gjson.Result {
	return gjson.Get(p.raw, path)
}

// String returns the encoded object and any error accumulated while building.
// The zero value encodes as the empty object, which the firmware expects for
// parameterless methods.
func (p Params) String() (string, error) {
	if p.err != nil {
		return "", p.err
	}
	if p.raw == "" {
		return "{}", nil
	}
	return p.raw, nil
}

// Err returns any error that occurred during building
func (p Params) Err() error {
	return p.err
}

// IsZero reports whether no fields have been set
func (p Params) IsZero() bool {
	return p.raw == "" && p.err == nil
}

// Payload is the success payload of one call, kept as the raw JSON object the
// device produced. Like Params it is deliberately open: callers pick out the
// fields they know with Get and everything else is retained.
type Payload struct {
	raw string
}

// PayloadFromJSON wraps a raw result object. Used by tests and by the client
// internally; callers normally receive Payloads from Call.
func PayloadFromJSON(raw string) Payload {
	return Payload{raw: raw}
}

// Get queries a field of the payload with gjson path syntax
func (p Payload) Get(path string) gjson.Result {
	return gjson.Get(p.raw, path)
}

// Raw returns the payload exactly as the device sent it
func (p Payload) Raw() string {
	return p.raw
}

// Map returns the top-level fields of the payload
func (p Payload) Map() map[string]gjson.Result {
	return gjson.Parse(p.raw).Map()
}

// IsZero reports whether the payload is empty. Some methods (reboot,
// reset_defaults) return a bare status with no payload object.
func (p Payload) IsZero() bool {
	return p.raw == ""
}
