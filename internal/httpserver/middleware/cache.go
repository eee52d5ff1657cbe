package middleware

import "net/http"

// NoStore marks responses as uncacheable. The catalog can be reloaded while
// the process runs, so rendered pages must not outlive a request.
func NoStore() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-store")
			next.ServeHTTP(w, r)
		})
	}
}
