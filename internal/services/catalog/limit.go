package catalog

import (
	"math"
	"strings"
)

const (
	// DefaultLimit is the page size used when none is requested.
	DefaultLimit int64 = 50
	// DefaultMaxLimit leaves the requested page size unclamped. Operators
	// opt into a ceiling with DOCUMENT_MAX_LIMIT.
	DefaultMaxLimit int64 = 0
)

// ParseLimit reads the leading integer of a query value.
// Leading whitespace and a sign are accepted and trailing garbage is ignored,
// so "25abc" is 25. A value without leading digits yields 0.
func ParseLimit(raw string) int64 {
	s := strings.TrimLeft(raw, " \t\n\r\v\f")

	negative := false
	if len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		negative = s[0] == '-'
		s = s[1:]
	}

	var n int64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		d := int64(c - '0')
		if n > (math.MaxInt64-d)/10 {
			n = math.MaxInt64
			break
		}
		n = n*10 + d
	}

	if negative {
		return -n
	}
	return n
}

// ResolveLimit normalises a requested page size.
// Zero selects the default, a negative value counts as its absolute value and
// anything above the maximum is clamped. A maximum of 0 means unbounded.
func (s *Service) ResolveLimit(limit int64) int64 {
	if limit == 0 {
		return s.defaultLimit
	}
	if limit < 0 {
		limit = -limit
	}
	if s.maxLimit > 0 && limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}
