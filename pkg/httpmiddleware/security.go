package httpmiddleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/unrolled/secure"
)

// The ops surface (health probes, ping) is read-only, so the CORS method and
// header lists are fixed and only the origin policy varies.
var (
	opsAllowedMethods = []string{http.MethodGet, http.MethodOptions}
	opsAllowedHeaders = []string{"Origin", "Content-Type", "Authorization"}
)

// CORSConfig holds the variable parts of the ops CORS policy.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
	MaxAge           int
}

// DefaultCORSConfig allows any origin to read the probe endpoints.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"https://*", "http://*"},
		MaxAge:         300,
	}
}

// CORS middleware configures cross-origin access to the ops endpoints.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedMethods:   opsAllowedMethods,
		AllowedHeaders:   opsAllowedHeaders,
		AllowedOrigins:   config.AllowedOrigins,
		AllowCredentials: config.AllowCredentials,
		MaxAge:           config.MaxAge,
	})
}

// OpsSecurityOptions returns the security headers for the ops server. The
// endpoints serve JSON to probes, so framing and content sniffing are
// disabled outright.
func OpsSecurityOptions() *secure.Options {
	return &secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "no-referrer",
	}
}

// Security middleware adds security headers. A nil opts selects the ops
// defaults.
func Security(opts *secure.Options) func(http.Handler) http.Handler {
	if opts == nil {
		opts = OpsSecurityOptions()
	}
	return secure.New(*opts).Handler
}
