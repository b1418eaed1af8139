package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// Use it when you want zero third-party encoding dependencies on the read
// path; the persisted bytes are identical JSON either way.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }
