// Package typedmux implements a trie based url router whose captures are
// decoded to typed values and applied to typed handlers.

package typedmux

import (
	"reflect"
	"strconv"
	"sync/atomic"
)

// Decoder converts one path segment or query value to a typed value.
// Identity is the *Decoder pointer, not the name: two decoders constructed
// with the same name are distinct trie edges.
type Decoder struct {
	name  string
	typ   reflect.Type
	parse func(string) (interface{}, bool)
	rank  uint64
}

// Built-in decoder ranks. User decoders rank after all built-ins, in
// construction order. The rank is the edge-preference table: when several
// decoder edges accept the same segment, the lowest rank wins.
const (
	rankInt uint64 = iota
	rankInt32
	rankInt64
	rankFloat
	rankBool
	rankString
	rankUser
)

var userRank uint64 = rankUser

// NewDecoder returns a decoder with the given name and parse function.
// parse must report false on tokens it rejects.
//
//	hex := typedmux.NewDecoder("hex", func(s string) (int64, bool) {
//		v, err := strconv.ParseInt(s, 16, 64)
//		return v, err == nil
//	})
func NewDecoder[T any](name string, parse func(string) (T, bool)) *Decoder {
	return &Decoder{
		name: name,
		typ:  reflect.TypeOf((*T)(nil)).Elem(),
		parse: func(s string) (interface{}, bool) {
			v, ok := parse(s)
			if !ok {
				return nil, false
			}
			return v, true
		},
		rank: atomic.AddUint64(&userRank, 1),
	}
}

// Name returns the decoder's informational name.
func (d *Decoder) Name() string {
	return d.name
}

// Decode parses token, reporting whether the decoder accepted it.
func (d *Decoder) Decode(token string) (interface{}, bool) {
	return d.parse(token)
}

func builtin[T any](name string, rank uint64, parse func(string) (T, bool)) *Decoder {
	d := NewDecoder(name, parse)
	d.rank = rank
	return d
}

// signedDigits reports whether s is a plain signed base-10 literal:
// optional '-', then digits only. A leading '+' is rejected.
func signedDigits(s string) bool {
	if s == "" || s == "-" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			continue
		}
		if s[i] == '-' && i == 0 {
			continue
		}
		return false
	}
	return true
}

func parseInt(s string, bits int) (int64, bool) {
	if !signedDigits(s) {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, bits)
	return v, err == nil
}

// Built-in decoders. These have fixed identities and fixed preference
// ranks; see the rank constants above.
var (
	Int = builtin("int", rankInt, func(s string) (int, bool) {
		v, ok := parseInt(s, strconv.IntSize)
		return int(v), ok
	})

	Int32 = builtin("int32", rankInt32, func(s string) (int32, bool) {
		v, ok := parseInt(s, 32)
		return int32(v), ok
	})

	Int64 = builtin("int64", rankInt64, func(s string) (int64, bool) {
		return parseInt(s, 64)
	})

	Float = builtin("float", rankFloat, func(s string) (float64, bool) {
		if s == "" || s[0] == '+' {
			return 0, false
		}
		switch s[0] {
		case 'i', 'I', 'n', 'N': // Inf, NaN
			return 0, false
		}
		if len(s) > 1 && s[0] == '-' {
			switch s[1] {
			case 'i', 'I', 'n', 'N':
				return 0, false
			}
		}
		v, err := strconv.ParseFloat(s, 64)
		return v, err == nil
	})

	Bool = builtin("bool", rankBool, func(s string) (bool, bool) {
		switch s {
		case "true":
			return true, true
		case "false":
			return false, true
		}
		return false, false
	})

	String = builtin("string", rankString, func(s string) (string, bool) {
		return s, s != ""
	})
)

var builtinDecoders = []*Decoder{Int, Int32, Int64, Float, Bool, String}

func lookupDecoder(name string, extra []*Decoder) *Decoder {
	for _, d := range builtinDecoders {
		if d.name == name {
			return d
		}
	}
	for _, d := range extra {
		if d.name == name {
			return d
		}
	}
	return nil
}
