package dto

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// FlexID is an identifier that clients send either as a JSON number or as a
// numeric string. Anything that is not a positive integer decodes to 0,
// which services treat as missing.
type FlexID uint

// UnmarshalJSON implements json.Unmarshaler.
func (id *FlexID) UnmarshalJSON(data []byte) error {
	*id = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return nil
		}
		*id = FlexID(ParseID(s))
		return nil
	}
	*id = FlexID(ParseID(string(data)))
	return nil
}

// Uint returns the numeric value.
func (id FlexID) Uint() uint { return uint(id) }

// ParseID parses a positive integral identifier. Values like "12.0" are
// accepted; fractions, negatives and garbage yield 0.
func ParseID(s string) uint {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		if n > math.MaxUint32 {
			return 0
		}
		return uint(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 || f != math.Trunc(f) || f > math.MaxUint32 {
		return 0
	}
	return uint(f)
}

// FlexIDs converts a slice to plain uints, keeping zeros so callers can
// reject them.
func FlexIDs(ids []FlexID) []uint {
	out := make([]uint, len(ids))
	for i, id := range ids {
		out[i] = id.Uint()
	}
	return out
}
