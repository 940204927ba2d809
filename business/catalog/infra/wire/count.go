// Package wire defines the catalog JSON representation shared by the HTTP
// backend and the fixture loader.
package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Count is an unsigned counter written as a decimal string so it survives
// readers that parse JSON numbers as doubles. Decoding also accepts a bare
// non-negative integer.
type Count uint64

func (c Count) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(c), 10) + `"`), nil
}

func (c *Count) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = 0
		return nil
	}
	text := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
	}
	n, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return fmt.Errorf("wire: invalid count %s: %w", b, err)
	}
	*c = Count(n)
	return nil
}
