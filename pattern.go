package typedmux

import (
	"fmt"
	"strings"
)

type nodeKind uint8

const (
	kindExact nodeKind = iota
	kindCapture
	kindWildcard
	kindSplat
	kindSlash
	kindEnd
)

type pathNode struct {
	kind nodeKind
	lit  string   // kindExact
	dec  *Decoder // kindCapture
}

// QueryClause is one requirement on the request query: either an exact
// name=value pair, or a typed capture of the named parameter.
type QueryClause struct {
	name  string
	value string   // exact clauses
	dec   *Decoder // capture clauses, nil for exact
}

func (c QueryClause) exact() bool { return c.dec == nil }

// Pattern is the typed shape of one route: an ordered path and an unordered
// set of query clauses. A pattern is complete once it carries exactly one
// terminator (End, Slash or Splat) as its last path element.
//
// Patterns are built by composition:
//
//	p := typedmux.NewPattern().Exact("home").Int().Slash()
//	p := typedmux.NewPattern().Exact("product").Str().
//		QInt("section").QBool("q").End()
//
// Builder misuse (extending past a terminator, duplicate query names) is
// recorded on the pattern and reported when a route is constructed from it.
type Pattern struct {
	path      []pathNode
	query     []QueryClause // declared order
	pathCaps  []*Decoder    // path capture slot types, in order
	queryCaps []*Decoder    // query capture slot types, in clause declaration order
	err       error
	done      bool
}

// NewPattern returns an empty pattern open for composition.
func NewPattern() *Pattern {
	return new(Pattern)
}

func (p *Pattern) fail(format string, args ...interface{}) *Pattern {
	if p.err == nil {
		p.err = fmt.Errorf(format, args...)
	}
	return p
}

func (p *Pattern) extend(n pathNode) *Pattern {
	if p.err != nil {
		return p
	}
	if p.done {
		return p.fail(`can't extend pattern after terminator: "%s"`, p.String())
	}
	p.path = append(p.path, n)
	switch n.kind {
	case kindSplat, kindSlash, kindEnd:
		p.done = true
	}
	return p
}

// Exact appends a literal segment.
func (p *Pattern) Exact(s string) *Pattern {
	if s == "" || strings.ContainsRune(s, '/') {
		return p.fail(`invalid literal segment: %q`, s)
	}
	return p.extend(pathNode{kind: kindExact, lit: s})
}

// Capture appends a typed single-segment capture.
func (p *Pattern) Capture(d *Decoder) *Pattern {
	if d == nil {
		return p.fail("nil decoder in pattern")
	}
	p.extend(pathNode{kind: kindCapture, dec: d})
	if p.err == nil {
		p.pathCaps = append(p.pathCaps, d)
	}
	return p
}

// Int appends an int capture segment.
func (p *Pattern) Int() *Pattern { return p.Capture(Int) }

// Int32 appends an int32 capture segment.
func (p *Pattern) Int32() *Pattern { return p.Capture(Int32) }

// Int64 appends an int64 capture segment.
func (p *Pattern) Int64() *Pattern { return p.Capture(Int64) }

// Float appends a float capture segment.
func (p *Pattern) Float() *Pattern { return p.Capture(Float) }

// Bool appends a bool capture segment.
func (p *Pattern) Bool() *Pattern { return p.Capture(Bool) }

// Str appends a string capture segment.
func (p *Pattern) Str() *Pattern { return p.Capture(String) }

// Wildcard appends a single-segment untyped capture. The captured value is
// always a string.
func (p *Pattern) Wildcard() *Pattern {
	p.extend(pathNode{kind: kindWildcard})
	if p.err == nil {
		p.pathCaps = append(p.pathCaps, String)
	}
	return p
}

// Splat terminates the pattern with a greedy capture consuming every
// remaining segment and the raw query. The captured value is a string.
func (p *Pattern) Splat() *Pattern {
	p.extend(pathNode{kind: kindSplat})
	if p.err == nil {
		p.pathCaps = append(p.pathCaps, String)
	}
	return p
}

// Slash terminates the pattern, requiring a trailing slash on the request.
func (p *Pattern) Slash() *Pattern {
	return p.extend(pathNode{kind: kindSlash})
}

// End terminates the pattern, requiring the path to stop here without a
// trailing slash.
func (p *Pattern) End() *Pattern {
	return p.extend(pathNode{kind: kindEnd})
}

func (p *Pattern) addQuery(c QueryClause) *Pattern {
	if p.err != nil {
		return p
	}
	if c.name == "" {
		return p.fail("empty query parameter name")
	}
	for _, q := range p.query {
		if q.name == c.name {
			return p.fail(`duplicate query parameter %q in pattern "%s"`, c.name, p.String())
		}
	}
	p.query = append(p.query, c)
	if !c.exact() {
		p.queryCaps = append(p.queryCaps, c.dec)
	}
	return p
}

// QExact requires query parameter name with the exact literal value.
func (p *Pattern) QExact(name, value string) *Pattern {
	return p.addQuery(QueryClause{name: name, value: value})
}

// QCapture requires query parameter name and decodes its value.
func (p *Pattern) QCapture(name string, d *Decoder) *Pattern {
	if d == nil {
		return p.fail("nil decoder for query parameter %q", name)
	}
	return p.addQuery(QueryClause{name: name, dec: d})
}

// QInt requires an int-valued query parameter.
func (p *Pattern) QInt(name string) *Pattern { return p.QCapture(name, Int) }

// QInt32 requires an int32-valued query parameter.
func (p *Pattern) QInt32(name string) *Pattern { return p.QCapture(name, Int32) }

// QInt64 requires an int64-valued query parameter.
func (p *Pattern) QInt64(name string) *Pattern { return p.QCapture(name, Int64) }

// QFloat requires a float-valued query parameter.
func (p *Pattern) QFloat(name string) *Pattern { return p.QCapture(name, Float) }

// QBool requires a bool-valued query parameter.
func (p *Pattern) QBool(name string) *Pattern { return p.QCapture(name, Bool) }

// QString requires a non-empty string query parameter.
func (p *Pattern) QString(name string) *Pattern { return p.QCapture(name, String) }

// String returns the pattern's surface form.
func (p *Pattern) String() string {
	var b strings.Builder
	for _, n := range p.path {
		switch n.kind {
		case kindExact:
			b.WriteString("/" + n.lit)
		case kindCapture:
			b.WriteString("/:" + n.dec.name)
		case kindWildcard:
			b.WriteString("/*")
		case kindSplat:
			b.WriteString("/**")
		case kindSlash:
			b.WriteString("/")
		}
	}
	for i, c := range p.query {
		mark := "&"
		if i == 0 {
			mark = "?"
		}
		if c.exact() {
			b.WriteString(mark + c.name + "=" + c.value)
		} else {
			b.WriteString(mark + c.name + "=:" + c.dec.name)
		}
	}
	s := b.String()
	if s == "" || s[0] != '/' {
		s = "/" + s
	}
	return s
}

// check validates that the pattern is complete and well formed.
func (p *Pattern) check() error {
	if p.err != nil {
		return p.err
	}
	if !p.done {
		return fmt.Errorf(`pattern "%s" has no terminator`, p.String())
	}
	if len(p.query) > 0 && p.path[len(p.path)-1].kind == kindSplat {
		return fmt.Errorf(`pattern "%s": splat absorbs the query, query clauses can't match`, p.String())
	}
	return nil
}

// captureTypes returns the capture slot decoders in handler argument order:
// path captures first, then query captures in clause declaration order,
// regardless of how the builder calls were interleaved.
func (p *Pattern) captureTypes() []*Decoder {
	types := make([]*Decoder, 0, len(p.pathCaps)+len(p.queryCaps))
	types = append(types, p.pathCaps...)
	return append(types, p.queryCaps...)
}

// arity returns the handler argument count the pattern induces.
func (p *Pattern) arity() int {
	return len(p.pathCaps) + len(p.queryCaps)
}
