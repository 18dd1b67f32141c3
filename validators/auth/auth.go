package authValidator

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"khata/middleware"
)

var validate = validator.New()

// CredentialsRequest is the typed body for signup and login
type CredentialsRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// credentials validates a username/password pair and stashes it for the controller
func credentials(localsKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CredentialsRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Username = strings.TrimSpace(reqData.Username)
		reqData.Password = strings.TrimSpace(reqData.Password)

		errors := make(map[string]string)

		if err := validate.Struct(reqData); err != nil {
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "Username":
					errors["username"] = "Username is required!"
				case "Password":
					errors["password"] = "Password is required!"
				}
			}
		}

		// Respond with errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals(localsKey, reqData)
		return c.Next()
	}
}

// Signup validator middleware
func Signup() fiber.Handler {
	return credentials("validatedSignup")
}

// Login validator middleware
func Login() fiber.Handler {
	return credentials("validatedLogin")
}
