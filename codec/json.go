package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec. Slower than GoJSON but the
// most portable option; artifacts always record the codec name so either
// can decode what the other wrote.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the codec used for newly written artifacts.
var Default Codec = GoJSON{}
