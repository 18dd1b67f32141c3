package ledgerValidator

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"khata/middleware"
)

var validate = validator.New()

// AddMemberRequest is the typed body for creating a member
type AddMemberRequest struct {
	Name string `json:"name" form:"name" validate:"required"`
}

// AddTransactionRequest is the typed body for posting a transaction. Amount
// arrives as text from the form and is parsed here so a bad integer fails
// validation instead of body parsing.
type AddTransactionRequest struct {
	MemberID uint   `json:"memberId" form:"member_id" validate:"required"`
	Amount   string `json:"amount" form:"amount" validate:"required"`

	ParsedAmount int64 `json:"-" form:"-"`
}

// SearchRequest is the typed body for a member name search
type SearchRequest struct {
	Query string `json:"query" form:"query"`
}

// AddMember validator middleware
func AddMember() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AddMemberRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Name = strings.TrimSpace(reqData.Name)

		errors := make(map[string]string)

		if err := validate.Struct(reqData); err != nil {
			for range err.(validator.ValidationErrors) {
				errors["name"] = "Member name is required!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedMember", reqData)
		return c.Next()
	}
}

// AddTransaction validator middleware
func AddTransaction() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AddTransactionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Amount = strings.TrimSpace(reqData.Amount)

		errors := make(map[string]string)

		if reqData.MemberID == 0 {
			errors["member_id"] = "Member ID is required!"
		}
		if reqData.Amount == "" {
			errors["amount"] = "Amount is required!"
		} else {
			amount, err := strconv.ParseInt(reqData.Amount, 10, 64)
			if err != nil {
				errors["amount"] = "Amount must be a valid integer!"
			} else {
				reqData.ParsedAmount = amount
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTransaction", reqData)
		return c.Next()
	}
}

// Search validator middleware. An empty query is allowed; the controller
// answers it with an empty list.
func Search() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SearchRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Query = strings.TrimSpace(reqData.Query)

		c.Locals("validatedSearch", reqData)
		return c.Next()
	}
}
