package middlewares

import "github.com/labstack/echo/v4"

// CrossOriginIsolation sets the headers allowing the sign-in popup of the identity provider
// to communicate with the frontend.
func CrossOriginIsolation() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("Cross-Origin-Opener-Policy", "same-origin-allow-popups")
			h.Set("Cross-Origin-Embedder-Policy", "require-corp")
			return next(c)
		}
	}
}
