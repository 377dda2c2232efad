package serverutils

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JwtMiddleware trusts the upstream auth service's tokens. The referral core
// only needs the authenticated user id (and email, for notifications).
func JwtMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing token"})
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid claims"})
	}

	ctx.Locals("user_id", claims["user_id"])
	if email, ok := claims["email"]; ok {
		ctx.Locals("email", email)
	}
	return ctx.Next()
}

// ServiceKeyMiddleware guards internal service-to-service endpoints (the
// payment collaborator posting earning events).
func ServiceKeyMiddleware(ctx *fiber.Ctx) error {
	key := os.Getenv("INTERNAL_SERVICE_KEY")
	if key == "" || ctx.Get("X-Service-Key") != key {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid service key"})
	}
	return ctx.Next()
}
