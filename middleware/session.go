package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"khata/config"
)

// SessionCookie is the cookie carrying the signed session token
const SessionCookie = "khata_session"

// GenerateSessionToken signs a session token for the user
func GenerateSessionToken(userID uint, username string) (string, error) {
	claims := jwt.MapClaims{
		"userId":   userID,
		"username": username,
		"iat":      time.Now().Unix(), // issued at
		"jti":      uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	secret := []byte(config.AppConfig.SessionSecret)

	return token.SignedString(secret)
}

// SetSessionCookie attaches the session token to the response. No Expires is
// set, so the cookie lives for the browser session only.
func SetSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearSessionCookie removes the session cookie from the client
func ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// RequireSession guards ledger routes: a missing or invalid session sends the
// client to the login page instead of running any ledger logic.
func RequireSession(c *fiber.Ctx) error {
	tokenString := c.Cookies(SessionCookie)
	if tokenString == "" {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	// Parse and validate the token
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Check if the token method is valid
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.SessionSecret), nil
	})
	if err != nil || !token.Valid {
		ClearSessionCookie(c)
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["userId"] == nil || claims["username"] == nil {
		ClearSessionCookie(c)
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	// JWT numeric claims decode as float64, so cast it
	userID := claims["userId"].(float64)
	c.Locals("userId", uint(userID))
	c.Locals("username", claims["username"].(string))

	// If valid, continue to the next handler
	return c.Next()
}

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}
