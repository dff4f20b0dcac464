package typedmux

import (
	"reflect"
	"sort"
)

// node is one decision point in the trie. Literal children live in a map,
// one per distinct literal; decoder edges are kept sorted by preference
// rank; the wildcard, splat and slash edges are at most one each.
type node struct {
	exact     map[string]*node
	decoders  []decoderEdge
	wildcard  *node
	splat     *node
	slash     *node
	terminals []*terminal
}

type decoderEdge struct {
	dec   *Decoder
	child *node
}

// terminal is one completed match attached to a node, selectable by method
// and query clauses.
type terminal struct {
	method   Method
	query    []QueryClause // declared order
	nexact   int
	handler  reflect.Value
	isFunc   bool
	value    interface{}
	argTypes []reflect.Type
}

func newNode() *node {
	return &node{exact: make(map[string]*node)}
}

func (n *node) exactChild(lit string) *node {
	child := n.exact[lit]
	if child == nil {
		child = newNode()
		n.exact[lit] = child
	}
	return child
}

func (n *node) decoderChild(d *Decoder) *node {
	for _, e := range n.decoders {
		if e.dec == d {
			return e.child
		}
	}
	child := newNode()
	n.decoders = append(n.decoders, decoderEdge{dec: d, child: child})
	sort.SliceStable(n.decoders, func(i, j int) bool {
		return n.decoders[i].dec.rank < n.decoders[j].dec.rank
	})
	return child
}

// insert walks the route's path nodes, sharing existing edges with the same
// identity, and attaches the route's terminal.
func (n *node) insert(rt *Route) {
	cur := n
	for _, pn := range rt.pattern.path {
		switch pn.kind {
		case kindExact:
			cur = cur.exactChild(pn.lit)
		case kindCapture:
			cur = cur.decoderChild(pn.dec)
		case kindWildcard:
			if cur.wildcard == nil {
				cur.wildcard = newNode()
			}
			cur = cur.wildcard
		case kindSplat:
			if cur.splat == nil {
				cur.splat = newNode()
			}
			cur = cur.splat
		case kindSlash:
			if cur.slash == nil {
				cur.slash = newNode()
			}
			cur = cur.slash
		case kindEnd:
			// terminal attaches to the current node
		}
	}
	cur.attach(rt)
}

func (n *node) attach(rt *Route) {
	t := &terminal{
		method:  rt.method,
		query:   rt.pattern.query,
		handler: rt.handler,
		isFunc:  rt.isFunc,
		value:   rt.value,
	}
	for _, c := range t.query {
		if c.exact() {
			t.nexact++
		}
	}
	if rt.isFunc {
		ht := rt.handler.Type()
		t.argTypes = make([]reflect.Type, ht.NumIn())
		for i := range t.argTypes {
			t.argTypes[i] = ht.In(i)
		}
	}

	// Same method and query clause set: the new route replaces the old,
	// keeping its position so earlier-registered siblings still win ties.
	for i, old := range n.terminals {
		if old.method.equal(t.method) && sameClauses(old.query, t.query) {
			n.terminals[i] = t
			return
		}
	}
	n.terminals = append(n.terminals, t)
}

// sameClauses compares two clause sets ignoring declaration order. Clause
// names are unique within a pattern, so a name-keyed scan suffices.
func sameClauses(a, b []QueryClause) bool {
	if len(a) != len(b) {
		return false
	}
	for _, ca := range a {
		found := false
		for _, cb := range b {
			if ca.name != cb.name {
				continue
			}
			found = ca.dec == cb.dec && (!ca.exact() || ca.value == cb.value)
			break
		}
		if !found {
			return false
		}
	}
	return true
}

// bind applies the terminal's handler to the collected captures.
func (t *terminal) bind(args []interface{}) interface{} {
	if !t.isFunc {
		return t.value
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		rv := reflect.ValueOf(a)
		if !rv.IsValid() {
			rv = reflect.Zero(t.argTypes[i])
		}
		in[i] = rv
	}
	return t.handler.Call(in)[0].Interface()
}
