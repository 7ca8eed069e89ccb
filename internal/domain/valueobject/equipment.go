package valueobject

import (
	"encoding/json"
	"strings"
)

// Equipment is the ordered list of amenities of a property. A nil
// Equipment means "not specified".
type Equipment []string

// DecodeEquipment parses the stored JSON array. It never fails: empty,
// malformed or non-string data yields (nil, false).
func DecodeEquipment(raw string) (Equipment, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, false
	}

	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false
	}

	out := make(Equipment, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// Encode serializes the list for storage. Empty lists encode to "".
func (e Equipment) Encode() string {
	if len(e) == 0 {
		return ""
	}
	b, err := json.Marshal([]string(e))
	if err != nil {
		return ""
	}
	return string(b)
}

// Join renders the list comma-separated.
func (e Equipment) Join() string {
	return strings.Join(e, ", ")
}
