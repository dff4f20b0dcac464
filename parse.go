package typedmux

import (
	"fmt"
	"strings"
)

// ParsePattern parses the surface pattern syntax into a Pattern.
//
//	/home/:int/
//	/home/products/**
//	/product/:string?section=:int&q=:bool
//
// Segments starting with ':' name a decoder: the built-ins, or one of the
// supplied user decoders looked up by name. '*' is a single-segment wildcard,
// '**' a final catch-all. A trailing '/' requires a trailing slash on the
// request; its absence requires the path to end without one.
func ParsePattern(s string, decoders ...*Decoder) (*Pattern, error) {
	if s == "" || s[0] != '/' {
		return nil, fmt.Errorf(`pattern must start with "/": %q`, s)
	}

	pathRaw := s
	queryRaw := ""
	if i := strings.IndexByte(s, '?'); i >= 0 {
		pathRaw, queryRaw = s[:i], s[i+1:]
	}

	p := NewPattern()
	switch {
	case pathRaw == "/":
		p.End()
	default:
		trailing := strings.HasSuffix(pathRaw, "/")
		segs := strings.Split(strings.TrimSuffix(strings.TrimPrefix(pathRaw, "/"), "/"), "/")
		for i, seg := range segs {
			switch {
			case seg == "":
				return nil, fmt.Errorf(`empty segment in pattern: %q`, s)
			case seg == "*":
				p.Wildcard()
			case seg == "**":
				if i != len(segs)-1 || trailing {
					return nil, fmt.Errorf(`"**" must be the final segment: %q`, s)
				}
				p.Splat()
			case seg[0] == '*':
				return nil, fmt.Errorf(`invalid segment %q in pattern %q`, seg, s)
			case seg[0] == ':':
				d := lookupDecoder(seg[1:], decoders)
				if d == nil {
					return nil, fmt.Errorf(`unknown decoder %q in pattern %q`, seg[1:], s)
				}
				p.Capture(d)
			default:
				p.Exact(seg)
			}
		}
		if !p.done {
			if trailing {
				p.Slash()
			} else {
				p.End()
			}
		}
	}

	if queryRaw != "" {
		for _, pair := range strings.Split(queryRaw, "&") {
			name, value, ok := strings.Cut(pair, "=")
			if !ok || name == "" {
				return nil, fmt.Errorf(`invalid query clause %q in pattern %q`, pair, s)
			}
			if strings.HasPrefix(value, ":") {
				d := lookupDecoder(value[1:], decoders)
				if d == nil {
					return nil, fmt.Errorf(`unknown decoder %q in pattern %q`, value[1:], s)
				}
				p.QCapture(name, d)
			} else {
				p.QExact(name, value)
			}
		}
	}

	if err := p.check(); err != nil {
		return nil, err
	}
	return p, nil
}

// MustParse is like ParsePattern but panics on invalid patterns.
func MustParse(s string, decoders ...*Decoder) *Pattern {
	p, err := ParsePattern(s, decoders...)
	if err != nil {
		panic(err)
	}
	return p
}
