package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedList is returned when a stored list column cannot be decoded.
var ErrMalformedList = errors.New("malformed list column")

// StringList is a list of strings kept in a JSON column (JSONB on Postgres, TEXT on SQLite).
type StringList []string

// Value implements driver.Valuer. A nil list is stored as NULL.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// ParseStringList decodes a stored list column.
//
// Older rows hold the list JSON-encoded a second time (a JSON string whose content is the
// array), so a leading string is unwrapped once before decoding. NULL decodes to nil.
// Valid JSON that is not an array also decodes to nil. Anything else that does not decode
// to an array of strings yields ErrMalformedList.
func ParseStringList(raw []byte) (StringList, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedList, err)
		}
		raw = bytes.TrimSpace([]byte(text))
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedList, err)
	}

	items, ok := decoded.([]any)
	if !ok {
		return nil, nil
	}

	list := make(StringList, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: non-string element %v", ErrMalformedList, item)
		}
		list = append(list, s)
	}
	return list, nil
}
