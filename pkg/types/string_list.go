package types

import (
	"bytes"
	"encoding/json"
	"strings"
)

// StringList decodes list-valued product attributes. Backends send them as a JSON array,
// as a string holding an encoded array, or as a single plain string.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *StringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = nil
		return nil
	}

	if trimmed[0] == '[' {
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*s = list
		return nil
	}

	var raw string
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*s = nil
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			*s = list
			return nil
		}
	}
	*s = StringList{raw}
	return nil
}

// Contains reports whether value is one of the list entries.
func (s StringList) Contains(value string) bool {
	for _, entry := range s {
		if entry == value {
			return true
		}
	}
	return false
}

// First returns the first entry or an empty string.
func (s StringList) First() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
