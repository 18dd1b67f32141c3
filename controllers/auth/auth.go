package authController

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"khata/config"
	"khata/database"
	"khata/middleware"
	"khata/models"
	authValidator "khata/validators/auth"
)

// SignupForm describes the signup form for the client
func SignupForm(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submit username and password to create an account.", fiber.Map{
		"fields": []string{"username", "password"},
	})
}

func Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSignup").(*authValidator.CredentialsRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check if username already exists
	if err := db.Where("username = ?", reqData.Username).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Username is already taken!", nil)
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Username: reqData.Username,
		Password: string(hashedPassword),
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to sign up user!", nil)
	}

	// Signup does not log the user in; they go through /login next.
	newUser.Password = ""

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Account created, please log in.", newUser)
}

// LoginForm describes the login form for the client
func LoginForm(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submit username and password to log in.", fiber.Map{
		"fields": []string{"username", "password"},
	})
}

func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.CredentialsRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("username = ?", reqData.Username).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	// Validate password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	token, err := middleware.GenerateSessionToken(user.ID, user.Username)
	if err != nil {
		log.Printf("Error signing session token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to establish session!", nil)
	}
	middleware.SetSessionCookie(c, token)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged in successfully.", fiber.Map{
		"userId":   user.ID,
		"username": user.Username,
	})
}

// Logout clears the session unconditionally
func Logout(c *fiber.Ctx) error {
	middleware.ClearSessionCookie(c)
	return c.Redirect("/login", fiber.StatusSeeOther)
}
