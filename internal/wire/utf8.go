package wire

import (
	"encoding/json"
	"unicode/utf8"
)

// toUTF8 validates that data is well-formed UTF-8 before it becomes a Go
// string, so a malformed frame fails with ErrBadUTF8 instead of silently
// producing replacement characters.
func toUTF8(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrBadUTF8
	}
	return string(data), nil
}

func toJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func fromJSON(data []byte, v any) error {
	if !utf8.Valid(data) {
		return ErrBadUTF8
	}
	if err := json.Unmarshal(data, v); err != nil {
		return ErrBadJSON
	}
	return nil
}
