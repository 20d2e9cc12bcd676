package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var (
	ErrIDMissing    = errors.New("id is missing")
	ErrIDNotNumeric = errors.New("id is not numeric")
)

// EntityID keeps a backend identifier as text. The directory backend uses
// numeric ids but payloads are not trusted: ids may be absent, quoted or not
// numeric at all, and each case has to be reported separately.
type EntityID string

func NumericID(n int64) EntityID {
	return EntityID(strconv.FormatInt(n, 10))
}

func (id EntityID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

// Int64 resolves the id for a backend path segment.
func (id EntityID) Int64() (int64, error) {
	s := strings.TrimSpace(string(id))
	if s == "" {
		return 0, ErrIDMissing
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrIDNotNumeric
	}
	return n, nil
}

func (id *EntityID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = EntityID(s)
		return nil
	}
	*id = EntityID(b)
	return nil
}

func (id EntityID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	if n, err := id.Int64(); err == nil {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(id))
}
