package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// StatValue is an integer field that the feed encodes inconsistently:
// sometimes a JSON number, sometimes a numeric string, sometimes null or
// missing entirely. Anything that does not parse as an integer becomes 0.
type StatValue int

// UnmarshalJSON never fails; malformed values coerce to zero.
func (v *StatValue) UnmarshalJSON(data []byte) error {
	*v = 0

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		*v = StatValue(n)
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*v = StatValue(int(f))
	}
	return nil
}

// Int returns the coerced value.
func (v StatValue) Int() int {
	return int(v)
}

// FlexString is a string field that the feed may encode as a JSON string
// or a bare number.
type FlexString string

// UnmarshalJSON accepts either representation; null becomes the empty string.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}

	*s = FlexString(data)
	return nil
}

// String returns the underlying string value.
func (s FlexString) String() string {
	return string(s)
}
