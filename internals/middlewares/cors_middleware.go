// file: internals/middlewares/cors_middleware.go
package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const defaultCORSOrigin = "http://localhost:3000"

// CorsMiddleware allows the configured front-end origins. Blank entries are
// dropped; an empty list falls back to the local front-end.
func CorsMiddleware(origins []string) fiber.Handler {
	allow := corsOrigins(origins)
	return cors.New(cors.Config{
		AllowOrigins:     allow,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders:    "X-Request-ID, Content-Disposition",
		AllowCredentials: allow != "*",
	})
}

func corsOrigins(origins []string) string {
	kept := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		// a wildcard anywhere means any origin, without credentials
		if o == "*" {
			return "*"
		}
		kept = append(kept, o)
	}
	if len(kept) == 0 {
		return defaultCORSOrigin
	}
	return strings.Join(kept, ", ")
}
