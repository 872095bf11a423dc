package clientip

import "net/http"

// Middleware stores the client address in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(SetIPToContext(r.Context(), GetIP(r))))
	})
}

// FromRequest prefers the address stored by Middleware and resolves it
// otherwise.
func FromRequest(r *http.Request) string {
	if ip := GetIPFromContext(r.Context()); ip != "" {
		return ip
	}
	return GetIP(r)
}
