// Package price normalizes the heterogeneous numeric encodings the storefront
// API emits for money and stock values. A field may arrive as a plain JSON
// number, a numeric string, or a MongoDB extended-JSON wrapper object
// ($numberInt, $numberDecimal, $numberLong) whose payload is itself either a
// string or a number.
package price

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Kind identifies which wire encoding a Value was decoded from.
type Kind int

const (
	KindUnknown Kind = iota
	KindPlain
	KindInt
	KindDecimal
	KindLong
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindInt:
		return "int"
	case KindDecimal:
		return "decimal"
	case KindLong:
		return "long"
	default:
		return "unknown"
	}
}

// Value is a price (or stock count) decoded from any of the supported wire
// encodings. The zero Value is the unknown sentinel, distinct from an explicit
// zero price so catalog views do not render missing prices as free.
type Value struct {
	kind Kind
	num  float64
	raw  json.RawMessage
}

// FromFloat builds a plain Value, used when constructing carts in code.
func FromFloat(f float64) Value {
	return Value{kind: KindPlain, num: f}
}

// Kind reports the wire encoding the value was decoded from.
func (v Value) Kind() Kind { return v.kind }

// Known reports whether the value carries a usable number. Display callers
// check this before rendering; total computations use Normalize, which maps
// unknown to 0.
func (v Value) Known() bool { return v.kind != KindUnknown }

// Normalize returns the numeric value. Unknown or malformed input yields 0 so
// a bad price degrades a total instead of poisoning it with NaN.
func (v Value) Normalize() float64 {
	if v.kind == KindUnknown || math.IsNaN(v.num) {
		return 0
	}
	return v.num
}

// extJSONWrapper matches the tagged wrapper shapes. Payloads stay raw because
// the API is inconsistent about quoting them.
type extJSONWrapper struct {
	Int     json.RawMessage `json:"$numberInt"`
	Decimal json.RawMessage `json:"$numberDecimal"`
	Long    json.RawMessage `json:"$numberLong"`
}

// UnmarshalJSON decodes any supported encoding. Wrapper tags are checked in a
// fixed order (int, decimal, long) and only the first present tag is used.
// Anything unrecognized decodes to the unknown sentinel rather than erroring,
// so one malformed price field cannot fail a whole product payload.
func (v *Value) UnmarshalJSON(data []byte) error {
	v.raw = append(json.RawMessage(nil), data...)
	v.kind = KindUnknown
	v.num = 0

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	switch trimmed[0] {
	case '{':
		var w extJSONWrapper
		if err := json.Unmarshal(trimmed, &w); err != nil {
			return nil
		}
		switch {
		case w.Int != nil:
			v.setParsed(KindInt, w.Int)
		case w.Decimal != nil:
			v.setParsed(KindDecimal, w.Decimal)
		case w.Long != nil:
			v.setParsed(KindLong, w.Long)
		}
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			v.kind = KindPlain
			v.num = f
		}
	default:
		var f float64
		if err := json.Unmarshal(trimmed, &f); err == nil {
			v.kind = KindPlain
			v.num = f
		}
	}
	return nil
}

// setParsed interprets a wrapper payload, unquoting it if needed.
func (v *Value) setParsed(kind Kind, payload json.RawMessage) {
	s := string(bytes.TrimSpace(payload))
	if len(s) >= 2 && s[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(payload, &unquoted); err != nil {
			return
		}
		s = unquoted
	}

	if kind == KindDecimal {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return
		}
		v.kind = kind
		v.num = d.InexactFloat64()
		return
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return
	}
	v.kind = kind
	v.num = f
}

// MarshalJSON re-emits the original wire bytes when the value came off the
// wire, so persisted cart snapshots and outgoing order payloads keep whatever
// encoding the server sent. Values built in code encode as plain numbers.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.raw != nil {
		return v.raw, nil
	}
	if v.kind == KindUnknown {
		return []byte("null"), nil
	}
	return json.Marshal(v.num)
}
