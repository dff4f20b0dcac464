package typedmux

import "strings"

// Match walks the request target through the trie and applies the matched
// route's handler to the decoded captures. It reports false when no route
// matches; decoder failures, unsatisfied query clauses and exhausted
// backtracking all reduce to that single result. Malformed targets never
// panic.
//
// Match is safe for concurrent use; the trie is immutable after NewRouter.
func (r *Router) Match(method Method, target string) (interface{}, bool) {
	if target == "" || target[0] != '/' {
		return nil, false
	}

	pathRaw := target
	queryRaw := ""
	if i := strings.IndexByte(target, '?'); i >= 0 {
		pathRaw, queryRaw = target[:i], target[i+1:]
	}

	// "/" is the empty path; any other path keeps a trailing empty segment
	// as the trailing-slash marker.
	var segs []string
	if pathRaw != "/" {
		segs = strings.Split(pathRaw[1:], "/")
	}

	m := &matcher{method: method, queryRaw: queryRaw}
	m.params, m.queryOK = parseQuery(queryRaw)
	return m.walk(r.root, segs)
}

// MatchString is Match with a boundary method string, normalized by
// ParseMethod.
func (r *Router) MatchString(method, target string) (interface{}, bool) {
	return r.Match(ParseMethod(method), target)
}

// parseQuery splits raw on '&' and each clause on the first '='. Duplicate
// names are allowed; the last occurrence wins. An empty clause or a clause
// without '=' marks the whole query malformed.
func parseQuery(raw string) (map[string]string, bool) {
	if raw == "" {
		return nil, true
	}
	params := make(map[string]string)
	for _, pair := range strings.Split(raw, "&") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, false
		}
		params[name] = value
	}
	return params, true
}

type matcher struct {
	method   Method
	queryRaw string
	params   map[string]string
	queryOK  bool
	caps     []interface{}
}

// walk tries the current node's edges against the remaining segments in
// preference order: literal, decoders by rank, slash, wildcard, splat. A
// matching literal commits its segment; the other edge kinds backtrack,
// discarding captures from abandoned branches.
func (m *matcher) walk(n *node, segs []string) (interface{}, bool) {
	if len(segs) == 0 {
		return m.resolve(n, false)
	}
	seg := segs[0]

	if child, ok := n.exact[seg]; ok {
		return m.walk(child, segs[1:])
	}

	mark := len(m.caps)
	for _, e := range n.decoders {
		v, ok := e.dec.Decode(seg)
		if !ok {
			continue
		}
		m.caps = append(m.caps, v)
		if res, ok := m.walk(e.child, segs[1:]); ok {
			return res, true
		}
		m.caps = m.caps[:mark]
	}

	if n.slash != nil && len(segs) == 1 && seg == "" {
		if res, ok := m.resolve(n.slash, false); ok {
			return res, true
		}
	}

	if n.wildcard != nil && seg != "" {
		m.caps = append(m.caps, seg)
		if res, ok := m.walk(n.wildcard, segs[1:]); ok {
			return res, true
		}
		m.caps = m.caps[:mark]
	}

	if n.splat != nil {
		rest := strings.Join(segs, "/")
		if m.queryRaw != "" {
			rest += "?" + m.queryRaw
		}
		m.caps = append(m.caps, rest)
		if res, ok := m.resolve(n.splat, true); ok {
			return res, true
		}
		m.caps = m.caps[:mark]
	}

	return nil, false
}

// resolve selects among the node's terminals: filter by method, evaluate
// query clauses, prefer the candidate with more exact clauses, break ties by
// insertion order.
func (m *matcher) resolve(n *node, viaSplat bool) (interface{}, bool) {
	var best *terminal
	var bestQCaps []interface{}
	bestExact := -1
	for _, t := range n.terminals {
		if !t.method.equal(m.method) {
			continue
		}
		qcaps, ok := m.evalClauses(t, viaSplat)
		if !ok {
			continue
		}
		if t.nexact > bestExact {
			best, bestQCaps, bestExact = t, qcaps, t.nexact
		}
	}
	if best == nil {
		return nil, false
	}

	args := make([]interface{}, 0, len(m.caps)+len(bestQCaps))
	args = append(args, m.caps...)
	args = append(args, bestQCaps...)
	return best.bind(args), true
}

// evalClauses checks every clause of t against the parsed query, collecting
// decoded capture values in clause declaration order.
// A malformed query fails every terminal except one reached through a splat
// edge, which absorbs the raw query without inspecting it.
func (m *matcher) evalClauses(t *terminal, viaSplat bool) ([]interface{}, bool) {
	if !m.queryOK && !viaSplat {
		return nil, false
	}
	if len(t.query) == 0 {
		return nil, true
	}
	var qcaps []interface{}
	for _, c := range t.query {
		value, ok := m.params[c.name]
		if !ok {
			return nil, false
		}
		if c.exact() {
			if value != c.value {
				return nil, false
			}
			continue
		}
		v, ok := c.dec.Decode(value)
		if !ok {
			return nil, false
		}
		qcaps = append(qcaps, v)
	}
	return qcaps, true
}
