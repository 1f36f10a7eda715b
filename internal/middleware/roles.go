// Package middleware contains HTTP middleware functions for the FeedPulse
// Articles API. This file handles role-based access control — checking that
// the authenticated caller has permission to perform the requested action.
package middleware

import "github.com/gofiber/fiber/v2"

// RequireRole returns a middleware handler that allows only callers whose role
// matches one of the provided roles. Returns HTTP 403 Forbidden if the role
// doesn't match.
//
// It accepts a variadic list of roles ("..." syntax) so you can allow one or
// more roles on a route with a single call:
//
//	api.Post("/articles", middleware.RequireRole(middleware.RoleAdmin, middleware.RoleEditor), handlers.CreateArticle(db, hub))
//
// RequireRole must be used AFTER the Auth middleware, because Auth is what
// populates the "userRole" value in the request context via c.Locals.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// c.Locals("userRole") retrieves the role string that the Auth middleware
		// stored earlier in this request's context. The .(string) type assertion
		// converts the interface{} value to a concrete string; if the value is
		// missing or isn't a string, ok will be false.
		userRole, ok := c.Locals("userRole").(string)
		if !ok || userRole == "" {
			// No role means the Auth middleware wasn't applied or failed silently —
			// deny with 403 Forbidden (not 401, because the caller might be
			// authenticated but still not have a role set)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "forbidden",
			})
		}

		// Allow the request to continue the moment we find a matching role.
		for _, role := range roles {
			if userRole == role {
				return c.Next()
			}
		}

		// Authenticated but not authorized for this action.
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "insufficient permissions",
		})
	}
}
