package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSConfig lists what browsers on other origins may do. An "*" entry in
// AllowOrigins admits every origin.
type CORSConfig struct {
	AllowOrigins  []string
	AllowMethods  []string
	AllowHeaders  []string
	ExposeHeaders []string
	// MaxAge is the preflight cache lifetime in seconds; 0 omits the header.
	MaxAge int
}

// DefaultCORSConfig admits any origin to the gateway's GET and POST routes.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Accept", "Content-Type", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        600,
	}
}

// corsPolicy is a CORSConfig with its header values joined once.
type corsPolicy struct {
	anyOrigin bool
	origins   map[string]struct{}
	headers   map[string]string
}

func compileCORS(cfg CORSConfig) *corsPolicy {
	p := &corsPolicy{
		origins: make(map[string]struct{}, len(cfg.AllowOrigins)),
		headers: map[string]string{
			"Access-Control-Allow-Methods": strings.Join(cfg.AllowMethods, ", "),
			"Access-Control-Allow-Headers": strings.Join(cfg.AllowHeaders, ", "),
		},
	}
	for _, origin := range cfg.AllowOrigins {
		if origin == "*" {
			p.anyOrigin = true
		}
		p.origins[origin] = struct{}{}
	}
	if len(cfg.ExposeHeaders) > 0 {
		p.headers["Access-Control-Expose-Headers"] = strings.Join(cfg.ExposeHeaders, ", ")
	}
	if cfg.MaxAge > 0 {
		p.headers["Access-Control-Max-Age"] = strconv.Itoa(cfg.MaxAge)
	}
	return p
}

// allow returns the Access-Control-Allow-Origin value for origin, or "".
func (p *corsPolicy) allow(origin string) string {
	if p.anyOrigin {
		return "*"
	}
	if _, ok := p.origins[origin]; ok && origin != "" {
		return origin
	}
	return ""
}

// NewCORSMiddleware applies cfg to every request and ends preflights with 204.
func NewCORSMiddleware(cfg CORSConfig) gin.HandlerFunc {
	policy := compileCORS(cfg)

	return func(c *gin.Context) {
		if !policy.anyOrigin {
			c.Header("Vary", "Origin")
		}

		if allowed := policy.allow(c.GetHeader("Origin")); allowed != "" {
			c.Header("Access-Control-Allow-Origin", allowed)
			for name, value := range policy.headers {
				c.Header(name, value)
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// SetupCORSRoutes routes OPTIONS on every path to the CORS handler.
// Engine middleware does not run for requests no route matches.
func SetupCORSRoutes(router *gin.Engine, cfg CORSConfig) {
	router.OPTIONS("/*path", NewCORSMiddleware(cfg))
}
