package mux

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dimfeld/httptreemux"
	"github.com/julienschmidt/httprouter"
)

// Comparative dispatch benchmarks against the usual reference routers, on an
// equivalent pattern set.

var benchRequests = []*http.Request{
	httptest.NewRequest("GET", "/", nil),
	httptest.NewRequest("GET", "/home/about", nil),
	httptest.NewRequest("GET", "/product/100001", nil),
	httptest.NewRequest("GET", "/static/js/app/main.js", nil),
}

type noopWriter struct{}

func (noopWriter) Header() http.Header         { return http.Header{} }
func (noopWriter) Write(p []byte) (int, error) { return len(p), nil }
func (noopWriter) WriteHeader(int)             {}

func BenchmarkTypedMux(b *testing.B) {
	m := New()
	m.Get("/", "root")
	m.Get("/home/about", "about")
	m.Get("/product/:int", func(id int) interface{} { return id })
	m.Get("/static/**", func(rest string) interface{} { return rest })

	w := noopWriter{}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.ServeHTTP(w, benchRequests[i%len(benchRequests)])
	}
}

func BenchmarkHttpRouter(b *testing.B) {
	handle := func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {}
	m := httprouter.New()
	m.GET("/", handle)
	m.GET("/home/about", handle)
	m.GET("/product/:id", handle)
	m.GET("/static/*rest", handle)

	w := noopWriter{}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.ServeHTTP(w, benchRequests[i%len(benchRequests)])
	}
}

func BenchmarkHttpTreemux(b *testing.B) {
	handle := func(w http.ResponseWriter, r *http.Request, _ map[string]string) {}
	m := httptreemux.New()
	m.GET("/", handle)
	m.GET("/home/about", handle)
	m.GET("/product/:id", handle)
	m.GET("/static/*rest", handle)

	w := noopWriter{}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.ServeHTTP(w, benchRequests[i%len(benchRequests)])
	}
}
