package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ID identifies a record inside its collection. Legacy clients sometimes send ids as
// strings, so both JSON numbers and numeric strings are accepted.
type ID int64

// ParseID parses a path or query parameter.
func ParseID(raw string) (ID, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return ID(v), nil
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Ptr returns a pointer to a copy of id.
func (id ID) Ptr() *ID {
	return &id
}

// UnmarshalJSON implements json.Unmarshaler. Integer literals are parsed exactly;
// exponent forms are accepted only when they denote a whole number in range.
func (id *ID) UnmarshalJSON(data []byte) error {
	literal, ok, err := numericLiteral(data)
	if err != nil || !ok {
		return err
	}
	if v, err := strconv.ParseInt(literal, 10, 64); err == nil {
		*id = ID(v)
		return nil
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return fmt.Errorf("expected an integer id, got %s", literal)
	}
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return fmt.Errorf("id must be a 64-bit integer, got %s", literal)
	}
	*id = ID(f)
	return nil
}

// Number is a monetary or otherwise fractional amount.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	f, ok, err := decodeNumeric(data)
	if err != nil || !ok {
		return err
	}
	*n = Number(f)
	return nil
}

// Count is a non-fractional quantity such as a group capacity.
type Count int

// UnmarshalJSON implements json.Unmarshaler.
func (c *Count) UnmarshalJSON(data []byte) error {
	f, ok, err := decodeNumeric(data)
	if err != nil || !ok {
		return err
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("expected a whole number, got %v", f)
	}
	*c = Count(f)
	return nil
}

// numericLiteral returns the text of a JSON number or numeric string. ok is false for
// null and empty strings.
func numericLiteral(data []byte) (string, bool, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", false, nil
	}
	if data[0] != '"' {
		return string(data), true, nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", false, err
	}
	s = strings.TrimSpace(s)
	return s, s != "", nil
}

// decodeNumeric reads a JSON number or numeric string. ok is false for null.
func decodeNumeric(data []byte) (float64, bool, error) {
	literal, ok, err := numericLiteral(data)
	if err != nil || !ok {
		return 0, false, err
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return 0, false, fmt.Errorf("expected a number, got %s", literal)
	}
	return f, true, nil
}
