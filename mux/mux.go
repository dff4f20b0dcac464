package mux

import (
	"fmt"
	"net/http"

	typedmux "github.com/typedmux/typed-mux"
)

// Mux is a trie based HTTP request router dispatching requests to typed
// handlers. Patterns use the surface syntax accepted by
// typedmux.ParsePattern:
//
//	m := mux.New()
//	m.Get("/home/:int/", func(id int) interface{} {
//		return fmt.Sprintf("product %d", id)
//	})
//
// A handler's return value renders the response: an http.Handler is served,
// a string is written as text, anything else is printed with fmt.
type Mux struct {
	routes    []*typedmux.Route
	router    *typedmux.Router
	decoders  []*typedmux.Decoder
	otherwise http.Handler
}

// New returns a Mux instance.
func New() *Mux {
	return &Mux{router: typedmux.Must()}
}

// UseDecoder registers a user decoder for pattern parsing, resolvable by
// name in ":name" segments and query values.
func (m *Mux) UseDecoder(d *typedmux.Decoder) {
	m.decoders = append(m.decoders, d)
}

// Get registers a new GET route for a pattern with matching handler in the Mux.
func (m *Mux) Get(pattern string, handler interface{}) {
	m.Handle("GET", pattern, handler)
}

// Head registers a new HEAD route for a pattern with matching handler in the Mux.
func (m *Mux) Head(pattern string, handler interface{}) {
	m.Handle("HEAD", pattern, handler)
}

// Post registers a new POST route for a pattern with matching handler in the Mux.
func (m *Mux) Post(pattern string, handler interface{}) {
	m.Handle("POST", pattern, handler)
}

// Put registers a new PUT route for a pattern with matching handler in the Mux.
func (m *Mux) Put(pattern string, handler interface{}) {
	m.Handle("PUT", pattern, handler)
}

// Patch registers a new PATCH route for a pattern with matching handler in the Mux.
func (m *Mux) Patch(pattern string, handler interface{}) {
	m.Handle("PATCH", pattern, handler)
}

// Delete registers a new DELETE route for a pattern with matching handler in the Mux.
func (m *Mux) Delete(pattern string, handler interface{}) {
	m.Handle("DELETE", pattern, handler)
}

// Options registers a new OPTIONS route for a pattern with matching handler in the Mux.
func (m *Mux) Options(pattern string, handler interface{}) {
	m.Handle("OPTIONS", pattern, handler)
}

// Trace registers a new TRACE route for a pattern with matching handler in the Mux.
func (m *Mux) Trace(pattern string, handler interface{}) {
	m.Handle("TRACE", pattern, handler)
}

// Otherwise registers a handler in the Mux that will run if there is no
// other route matching.
func (m *Mux) Otherwise(handler http.Handler) {
	m.otherwise = handler
}

// Handle registers a new handler with method and pattern in the Mux. It
// panics on an invalid pattern or a handler whose signature disagrees with
// the pattern's captures. This function is intended for bulk loading and to
// allow the usage of less frequently used, non-standardized or custom
// methods.
func (m *Mux) Handle(method, pattern string, handler interface{}) {
	if method == "" {
		panic(fmt.Errorf("invalid method"))
	}
	p := typedmux.MustParse(pattern, m.decoders...)
	route, err := typedmux.NewRouteFor(typedmux.ParseMethod(method), p, handler)
	if err != nil {
		panic(err)
	}
	m.routes = append(m.routes, route)
	m.router = typedmux.Must(m.routes...)
}

// ServeHTTP implements the http.Handler interface.
func (m *Mux) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	target := req.URL.Path
	if req.URL.RawQuery != "" {
		target += "?" + req.URL.RawQuery
	}

	res, ok := m.router.MatchString(req.Method, target)
	if !ok {
		if m.otherwise != nil {
			m.otherwise.ServeHTTP(w, req)
			return
		}
		http.Error(w, fmt.Sprintf(`"%s" not implemented`, target), 501)
		return
	}

	switch v := res.(type) {
	case http.Handler:
		v.ServeHTTP(w, req)
	case string:
		w.WriteHeader(200)
		w.Write([]byte(v))
	default:
		w.WriteHeader(200)
		fmt.Fprint(w, v)
	}
}
