package authRoutes

import (
	"github.com/gofiber/fiber/v2"

	authControllers "khata/controllers/auth"
	authValidators "khata/validators/auth"
)

func SetupAuthRoutes(app *fiber.App) {
	app.Get("/signup", authControllers.SignupForm)
	app.Post("/signup", authValidators.Signup(), authControllers.Signup)
	app.Get("/login", authControllers.LoginForm)
	app.Post("/login", authValidators.Login(), authControllers.Login)
	app.Get("/logout", authControllers.Logout)
}
