package middleware

import (
	"ilimi/internal/models"
	"ilimi/internal/repositories"
	"ilimi/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// SchoolContext resolves the caller's school from their first active
// membership and stores both on the request. Routes behind it can assume a
// school scope exists.
func SchoolContext(memberRepo repositories.MemberRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}

		member, err := memberRepo.FirstActiveByUser(user.ID)
		if err != nil {
			if err == repositories.ErrMemberNotFound {
				return response.NotFound(c, "No school found for your account.")
			}
			return response.ServerError(c, "Failed to resolve school context")
		}

		c.Locals("member", member)
		c.Locals("school", member.School)
		return c.Next()
	}
}

// RequireAnyRole allows the request through when the caller holds at least
// one of the given active roles at the resolved school.
func RequireAnyRole(memberRepo repositories.MemberRepository, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		school := CurrentSchool(c)
		if user == nil || school == nil {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, role := range roles {
			ok, err := memberRepo.HasRole(user.ID, school.ID, role)
			if err != nil {
				return response.ServerError(c, "Failed to check permissions")
			}
			if ok {
				return c.Next()
			}
		}
		return response.Forbidden(c, "Insufficient permissions")
	}
}

// CurrentSchool returns the school stored by SchoolContext.
func CurrentSchool(c *fiber.Ctx) *models.School {
	school, _ := c.Locals("school").(*models.School)
	return school
}

// CurrentMember returns the membership stored by SchoolContext.
func CurrentMember(c *fiber.Ctx) *models.SchoolMember {
	member, _ := c.Locals("member").(*models.SchoolMember)
	return member
}
