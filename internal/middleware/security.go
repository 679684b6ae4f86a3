// internal/middleware/security.go
//
// Security-header middleware.
//
// Injects standard headers on every response:
//
//   • Strict-Transport-Security  (2 years, subdomains)
//   • Content-Security-Policy    (self plus the Snipcart and Prismic hosts)
//   • X-Frame-Options            (click-jacking)
//   • X-Content-Type-Options     (MIME sniffing)
//   • Referrer-Policy
//   • Permissions-Policy
//
// Notes
// -----
// • Headers are set before next.ServeHTTP; values written after the first
//   byte never reach the client.  Handlers may still override any of them.
// • The CSP must allow the Snipcart script, its stylesheet, its API, and
//   images served from the Prismic CDN.

package middleware

import "net/http"

const (
	hsts = "max-age=63072000; includeSubDomains"
	csp  = "default-src 'self'; " +
		"script-src 'self' https://cdn.snipcart.com https://code.jquery.com https://static.cdn.prismic.io; " +
		"style-src 'self' 'unsafe-inline' https://cdn.snipcart.com; " +
		"img-src 'self' data: https://images.prismic.io https://*.cdn.prismic.io https://cdn.snipcart.com; " +
		"connect-src 'self' https://*.snipcart.com https://*.prismic.io; " +
		"frame-src https://*.snipcart.com https://*.prismic.io; " +
		"object-src 'none'; base-uri 'self'; frame-ancestors 'self'"
	xfo   = "SAMEORIGIN"
	nosn  = "nosniff"
	refer = "strict-origin-when-cross-origin"
	perm  = "geolocation=(), microphone=(), camera=()"
)

// Security sets security headers for every response.
func Security(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Strict-Transport-Security", hsts)
		h.Set("Content-Security-Policy", csp)
		h.Set("X-Frame-Options", xfo)
		h.Set("X-Content-Type-Options", nosn)
		h.Set("Referrer-Policy", refer)
		h.Set("Permissions-Policy", perm)
		next.ServeHTTP(w, r)
	})
}
