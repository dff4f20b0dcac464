package typedmux

import (
	"fmt"
	"reflect"
)

// Route associates a method and a pattern with a handler.
//
// The handler must be a func whose parameter list equals the pattern's
// capture sequence (path captures in order, then query captures in the order
// their clauses were declared) and which returns exactly one value. A pattern
// without captures may instead carry any non-func value, which Match returns
// directly.
type Route struct {
	method  Method
	pattern *Pattern
	handler reflect.Value
	isFunc  bool
	value   interface{}
}

// NewRoute returns a GET route for pattern.
func NewRoute(pattern *Pattern, handler interface{}) (*Route, error) {
	return NewRouteFor(GET, pattern, handler)
}

// NewRouteFor returns a route for the given method and pattern. The handler
// is validated against the pattern's capture sequence.
func NewRouteFor(method Method, pattern *Pattern, handler interface{}) (*Route, error) {
	if pattern == nil {
		return nil, fmt.Errorf("nil pattern")
	}
	if err := pattern.check(); err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, fmt.Errorf(`nil handler for pattern "%s"`, pattern.String())
	}

	r := &Route{method: method, pattern: pattern, value: handler}
	hv := reflect.ValueOf(handler)
	if hv.Kind() != reflect.Func {
		if n := pattern.arity(); n != 0 {
			return nil, fmt.Errorf(`pattern "%s" has %d captures but handler is not a func`,
				pattern.String(), n)
		}
		return r, nil
	}

	ht := hv.Type()
	if ht.IsVariadic() {
		return nil, fmt.Errorf(`variadic handler for pattern "%s"`, pattern.String())
	}
	if ht.NumIn() != pattern.arity() {
		return nil, fmt.Errorf(`pattern "%s" has %d captures but handler takes %d arguments`,
			pattern.String(), pattern.arity(), ht.NumIn())
	}
	for i, d := range pattern.captureTypes() {
		if ht.In(i) != d.typ {
			return nil, fmt.Errorf(`pattern "%s": capture %d decodes to %s but handler argument %d is %s`,
				pattern.String(), i, d.typ, i, ht.In(i))
		}
	}
	if ht.NumOut() != 1 {
		return nil, fmt.Errorf(`handler for pattern "%s" must return exactly one value`, pattern.String())
	}

	r.handler = hv
	r.isFunc = true
	return r, nil
}

// NewRoutes returns one route per method, all sharing pattern and handler.
func NewRoutes(methods []Method, pattern *Pattern, handler interface{}) ([]*Route, error) {
	routes := make([]*Route, 0, len(methods))
	for _, m := range methods {
		r, err := NewRouteFor(m, pattern, handler)
		if err != nil {
			return nil, err
		}
		routes = append(routes, r)
	}
	return routes, nil
}

// Router is an immutable decision trie built from a route list. Building is
// single-task; matching is read-only and safe for concurrent use.
type Router struct {
	root      *node
	endpoints []string
}

// NewRouter folds routes into a router. Routes with an identical method,
// path and query clause set replace earlier ones (last insertion wins).
func NewRouter(routes ...*Route) (*Router, error) {
	r := &Router{root: newNode()}
	for i, rt := range routes {
		if rt == nil {
			return nil, fmt.Errorf("route %d is nil", i)
		}
		r.root.insert(rt)
		r.endpoints = append(r.endpoints, rt.method.String()+" "+rt.pattern.String())
	}
	return r, nil
}

// Must is like NewRouter but panics on invalid routes.
func Must(routes ...*Route) *Router {
	r, err := NewRouter(routes...)
	if err != nil {
		panic(err)
	}
	return r
}

// Endpoints returns the registered "METHOD /pattern" strings in
// registration order.
func (r *Router) Endpoints() []string {
	endpoints := make([]string, len(r.endpoints))
	copy(endpoints, r.endpoints)
	return endpoints
}
