// Package testsite serves an offline replica of the fundix.pro landing page.
// It backs the static engine in unit tests so every suite can run without a
// network or a real browser.
package testsite

import (
	"embed"
	"net/http"
	"net/http/httptest"
)

//go:embed site/*.html
var files embed.FS

// ConsentCookie is the cookie name stored when the banner is dismissed
const ConsentCookie = "fundix_cookie_consent"

// Handler routes requests to the fixture pages. Unknown paths return the 404 page.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			page(w, r, http.StatusNotFound, "site/404.html")
			return
		}
		page(w, r, http.StatusOK, "site/index.html")
	})
	mux.HandleFunc("/legal", func(w http.ResponseWriter, r *http.Request) {
		page(w, r, http.StatusOK, "site/legal.html")
	})
	mux.HandleFunc("/legal/", func(w http.ResponseWriter, r *http.Request) {
		page(w, r, http.StatusOK, "site/legal.html")
	})
	mux.HandleFunc("/old-blog", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/#blog", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/static/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// Client returns an HTTP client that answers every request, whatever its host,
// from Handler
func Client() *http.Client {
	return ClientFor(Handler())
}

// ClientFor returns an HTTP client that answers every request from h
func ClientFor(h http.Handler) *http.Client {
	return &http.Client{Transport: roundTripper{handler: h}}
}

// LandingHTML returns the landing page document, for tests that serve a mutated copy
func LandingHTML() string {
	data, err := files.ReadFile("site/index.html")
	if err != nil {
		panic(err)
	}
	return string(data)
}

// Page returns a handler serving a single HTML document on every path
func Page(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	})
}

func page(w http.ResponseWriter, r *http.Request, status int, name string) {
	data, err := files.ReadFile(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(data)
}

type roundTripper struct {
	handler http.Handler
}

func (rt roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	rec := httptest.NewRecorder()
	rt.handler.ServeHTTP(rec, req)

	resp := rec.Result()
	resp.Request = req
	return resp, nil
}
