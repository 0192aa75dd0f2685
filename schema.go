// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the closed set of attribute kinds the schema recognises. Every
// public and hidden field on a MetadataContainer is one of these.
type Kind int

const (
	KindText Kind = iota
	KindUint16
	KindUint32
	KindUint16x2
	KindBool
	KindGenre
	KindVolume
	KindImage
	KindDict
	KindIDict
)

// UintPair is the UINT16X2 kind: a (a, b) pair such as "track 3 of 10".
// Zero means unknown for either half; (0,0) as a whole is unset.
type UintPair struct {
	A, B uint16
}

func (p UintPair) isZero() bool { return p.A == 0 && p.B == 0 }

var boolTrueTokens = map[string]bool{
	"yes": true, "y": true, "true": true, "t": true, "on": true, "1": true, "\x01": true,
}

var boolFalseTokens = map[string]bool{
	"no": true, "n": true, "false": true, "f": true, "off": true, "0": true, "\x00": true,
}

func toInt64(v interface{}) int64 {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	default:
		return 0
	}
}

// asciiFromBytes decodes b as ASCII, ignoring (dropping) any byte that is
// not a 7-bit ASCII code point, per spec's "decode as ASCII ignoring
// errors" TEXT coercion rule.
func asciiFromBytes(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if c < 0x80 {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// stripTextField trims trailing spaces/NULs and then strips surrounding
// whitespace and embedded NUL bytes, per the TEXT coercion rule.
func stripTextField(s string) string {
	s = strings.TrimRight(s, " \x00")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\x00", "")
	return s
}

// validateText implements the TEXT kind: trims to unset on empty.
func validateText(field string, value interface{}) (string, bool, error) {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = asciiFromBytes(v)
	default:
		s = fmt.Sprintf("%v", v)
	}
	s = stripTextField(s)
	if s == "" {
		return "", false, nil
	}
	return s, true, nil
}

func parseNumeric(value interface{}) (float64, bool, error) {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return float64(toInt64(v)), true, nil
	case float32:
		return float64(v), true, nil
	case float64:
		return v, true, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, true, err
		}
		return f, true, nil
	default:
		return 0, true, fmt.Errorf("unsupported value type %T", value)
	}
}

// validateUint16 implements UINT16: clamp above range (decoder-side
// policy, see DESIGN.md), reject negatives, zero means unset.
func validateUint16(field string, value interface{}) (uint16, bool, error) {
	n, present, err := parseNumeric(value)
	if err != nil {
		return 0, false, newValidationError(field, err)
	}
	if !present {
		return 0, false, nil
	}
	i := int64(n)
	if i < 0 {
		return 0, false, newValidationError(field, fmt.Errorf("negative value %d not allowed", i))
	}
	if i > 65535 {
		i = 65535
	}
	if i == 0 {
		return 0, false, nil
	}
	return uint16(i), true, nil
}

// validateUint32 implements UINT32, identical policy to UINT16 at 32 bits.
func validateUint32(field string, value interface{}) (uint32, bool, error) {
	n, present, err := parseNumeric(value)
	if err != nil {
		return 0, false, newValidationError(field, err)
	}
	if !present {
		return 0, false, nil
	}
	i := int64(n)
	if i < 0 {
		return 0, false, newValidationError(field, fmt.Errorf("negative value %d not allowed", i))
	}
	const max32 = int64(1)<<32 - 1
	if i > max32 {
		i = max32
	}
	if i == 0 {
		return 0, false, nil
	}
	return uint32(i), true, nil
}

func validateUintHalf(field string, value interface{}) (uint16, error) {
	n, present, err := parseNumeric(value)
	if err != nil || !present {
		return 0, nil
	}
	i := int64(n)
	if i < 0 {
		return 0, newValidationError(field, fmt.Errorf("negative value %d not allowed", i))
	}
	if i > 65535 {
		i = 65535
	}
	return uint16(i), nil
}

// validateUint16x2 implements UINT16X2: single int -> (n,0); "a/b" string
// (non-digit halves parse to 0); 1-2 element sequence padded to 2.
func validateUint16x2(field string, value interface{}) (UintPair, bool, error) {
	switch v := value.(type) {
	case UintPair:
		if v.isZero() {
			return UintPair{}, false, nil
		}
		return v, true, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return UintPair{}, false, nil
		}
		parts := strings.Split(s, "/")
		if len(parts) > 2 {
			return UintPair{}, false, newValidationError(field, fmt.Errorf("too many '/' in %q", s))
		}
		a, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
		b := 0
		if len(parts) == 2 {
			b, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
		}
		return clampUint16x2(field, a, b)
	case []interface{}:
		if len(v) < 1 || len(v) > 2 {
			return UintPair{}, false, newValidationError(field, fmt.Errorf("expected 1 or 2 elements, got %d", len(v)))
		}
		a, err := validateUintHalf(field, v[0])
		if err != nil {
			return UintPair{}, false, err
		}
		var b uint16
		if len(v) == 2 {
			b, err = validateUintHalf(field, v[1])
			if err != nil {
				return UintPair{}, false, err
			}
		}
		if a == 0 && b == 0 {
			return UintPair{}, false, nil
		}
		return UintPair{A: a, B: b}, true, nil
	default:
		n, present, err := parseNumeric(value)
		if err != nil {
			return UintPair{}, false, newValidationError(field, err)
		}
		if !present {
			return UintPair{}, false, nil
		}
		return clampUint16x2(field, int(n), 0)
	}
}

func clampUint16x2(field string, a, b int) (UintPair, bool, error) {
	if a < 0 || b < 0 {
		return UintPair{}, false, newValidationError(field, fmt.Errorf("negative value in pair (%d,%d)", a, b))
	}
	if a > 65535 {
		a = 65535
	}
	if b > 65535 {
		b = 65535
	}
	if a == 0 && b == 0 {
		return UintPair{}, false, nil
	}
	return UintPair{A: uint16(a), B: uint16(b)}, true, nil
}

// validateBool implements BOOL per the yes/no token tables.
func validateBool(field string, value interface{}) (bool, bool, error) {
	switch v := value.(type) {
	case bool:
		return v, true, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return toInt64(v) != 0, true, nil
	case string:
		s := strings.ToLower(strings.ReplaceAll(v, "\x00", ""))
		if boolTrueTokens[s] {
			return true, true, nil
		}
		if boolFalseTokens[s] {
			return false, true, nil
		}
		return false, false, newValidationError(field, fmt.Errorf("not a recognised boolean token: %q", v))
	default:
		return false, false, newValidationError(field, fmt.Errorf("unsupported boolean value type %T", value))
	}
}

// validateVolume implements VOLUME: clamp to [-99.9, 100.0]; zero is a
// valid, meaningful value ("no adjustment"), never coerced to unset.
func validateVolume(field string, value interface{}) (float64, bool, error) {
	n, present, err := parseNumeric(value)
	if err != nil {
		return 0, false, newValidationError(field, err)
	}
	if !present {
		return 0, false, nil
	}
	if n < -99.9 {
		n = -99.9
	}
	if n > 100.0 {
		n = 100.0
	}
	return n, true, nil
}
