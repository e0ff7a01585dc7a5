package mrr

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Params is a decoded JSON request body. Decode with json.Decoder.UseNumber
// so numeric fields pass through unchanged.
type Params map[string]interface{}

func present(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case json.Number:
		return t.String() != ""
	}
	return true
}

// Require reports every key that is missing or blank.
func (p Params) Require(keys ...string) error {
	var missing []string
	for _, k := range keys {
		if !present(p[k]) {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return &Error{Kind: KindValidation, Message: "Missing required fields", Fields: missing}
	}
	return nil
}

// Get returns the raw value for key, or nil.
func (p Params) Get(key string) interface{} {
	if p == nil {
		return nil
	}
	return p[key]
}

func (p Params) String(key string) string {
	switch t := p.Get(key).(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	default:
		return fmt.Sprint(t)
	}
}

func requireValue(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return &Error{Kind: KindValidation, Message: "Missing required fields", Fields: []string{name}}
	}
	return nil
}
