package mux

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	typedmux "github.com/typedmux/typed-mux"
)

func body(t *testing.T, res *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(res.Body)
	assert.Nil(t, err)
	res.Body.Close()
	return string(b)
}

func TestMux(t *testing.T) {
	t.Run("Mux.Handle", func(t *testing.T) {
		assert := assert.New(t)

		mux := New()

		assert.Panics(func() {
			mux.Handle("", "/:string", func(s string) interface{} { return s })
		})
		assert.Panics(func() {
			mux.Handle("GET", "/:string", func(n int) interface{} { return n })
		})
		assert.Panics(func() {
			mux.Handle("GET", "/a//b", "x")
		})

		mux.Handle("GET", "/:string", func(s string) interface{} { return s })

		ts := httptest.NewServer(mux)
		defer ts.Close()

		res, err := http.Get(ts.URL + "/users")
		assert.Nil(err)
		assert.Equal(200, res.StatusCode)
		assert.Equal("users", body(t, res))

		res, err = http.Get(ts.URL + "/post")
		assert.Nil(err)
		assert.Equal(200, res.StatusCode)
		assert.Equal("post", body(t, res))
	})

	t.Run("typed captures", func(t *testing.T) {
		assert := assert.New(t)

		mux := New()
		mux.Get("/home/:int/", func(id int) interface{} {
			return fmt.Sprintf("Product Page. Product Id : %d", id)
		})
		mux.Get("/home/:float/", func(f float64) interface{} {
			return "Float page. number : " + strconv.FormatFloat(f, 'f', -1, 64)
		})
		mux.Get("/home/about", "about page")

		ts := httptest.NewServer(mux)
		defer ts.Close()

		res, err := http.Get(ts.URL + "/home/100001/")
		assert.Nil(err)
		assert.Equal("Product Page. Product Id : 100001", body(t, res))

		res, err = http.Get(ts.URL + "/home/100001.1/")
		assert.Nil(err)
		assert.Equal("Float page. number : 100001.1", body(t, res))

		res, err = http.Get(ts.URL + "/home/about")
		assert.Nil(err)
		assert.Equal("about page", body(t, res))

		res, err = http.Get(ts.URL + "/home/about/")
		assert.Nil(err)
		assert.Equal(501, res.StatusCode)
		res.Body.Close()
	})

	t.Run("query clauses", func(t *testing.T) {
		assert := assert.New(t)

		mux := New()
		mux.Get("/product/:string?section=:int&q=:bool", func(name string, section int, q bool) interface{} {
			return fmt.Sprintf("%s/%d/%t", name, section, q)
		})

		ts := httptest.NewServer(mux)
		defer ts.Close()

		res, err := http.Get(ts.URL + "/product/dyson350?section=233&q=true")
		assert.Nil(err)
		assert.Equal("dyson350/233/true", body(t, res))

		res, err = http.Get(ts.URL + "/product/dyson350?q=true&section=233")
		assert.Nil(err)
		assert.Equal("dyson350/233/true", body(t, res))

		res, err = http.Get(ts.URL + "/product/dyson350?section=nope&q=true")
		assert.Nil(err)
		assert.Equal(501, res.StatusCode)
		res.Body.Close()
	})

	t.Run("non-string results", func(t *testing.T) {
		assert := assert.New(t)

		mux := New()
		mux.Get("/n/:int", func(n int) interface{} { return n * 2 })
		mux.Get("/h", func() interface{} { return http.NotFoundHandler() })

		ts := httptest.NewServer(mux)
		defer ts.Close()

		res, err := http.Get(ts.URL + "/n/21")
		assert.Nil(err)
		assert.Equal("42", body(t, res))

		res, err = http.Get(ts.URL + "/h")
		assert.Nil(err)
		assert.Equal(404, res.StatusCode)
		res.Body.Close()
	})

	t.Run("methods", func(t *testing.T) {
		assert := assert.New(t)

		handler := func() func() interface{} {
			return func() interface{} { return "ok" }
		}

		mux := New()
		mux.Get("/", handler())
		mux.Head("/", handler())
		mux.Post("/", handler())
		mux.Put("/", handler())
		mux.Patch("/", handler())
		mux.Delete("/", handler())
		mux.Options("/", handler())
		mux.Trace("/", handler())

		ts := httptest.NewServer(mux)
		defer ts.Close()

		for _, method := range []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"} {
			req, err := http.NewRequest(method, ts.URL+"/", nil)
			assert.Nil(err)
			res, err := http.DefaultClient.Do(req)
			assert.Nil(err)
			assert.Equal(200, res.StatusCode, method)
			res.Body.Close()
		}

		req, err := http.NewRequest("PUT", ts.URL+"/nope", nil)
		assert.Nil(err)
		res, err := http.DefaultClient.Do(req)
		assert.Nil(err)
		assert.Equal(501, res.StatusCode)
		res.Body.Close()
	})

	t.Run("Otherwise", func(t *testing.T) {
		assert := assert.New(t)

		mux := New()
		mux.Get("/a", "a")
		mux.Otherwise(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(418)
		}))

		ts := httptest.NewServer(mux)
		defer ts.Close()

		res, err := http.Get(ts.URL + "/nope")
		assert.Nil(err)
		assert.Equal(418, res.StatusCode)
		res.Body.Close()
	})

	t.Run("UseDecoder", func(t *testing.T) {
		assert := assert.New(t)

		mux := New()
		mux.UseDecoder(typedmux.NewDecoder("hex", func(s string) (int64, bool) {
			v, err := strconv.ParseInt(s, 16, 64)
			return v, err == nil && s != ""
		}))
		mux.Get("/blob/:hex", func(v int64) interface{} { return v })

		ts := httptest.NewServer(mux)
		defer ts.Close()

		res, err := http.Get(ts.URL + "/blob/ff")
		assert.Nil(err)
		assert.Equal("255", body(t, res))

		res, err = http.Get(ts.URL + "/blob/zz")
		assert.Nil(err)
		assert.Equal(501, res.StatusCode)
		res.Body.Close()
	})
}
