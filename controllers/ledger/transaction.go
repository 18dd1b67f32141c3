package ledgerController

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"khata/database"
	"khata/middleware"
	"khata/models"
	ledgerValidator "khata/validators/ledger"
)

// AddTransactionForm returns the session user's members, which the form lists
// for picking who the transaction goes against.
func AddTransactionForm(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var members []models.Member
	if err := database.Database.Db.Where("user_id = ?", userId).Order("id").Find(&members).Error; err != nil {
		log.Printf("Error listing members: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch members!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submit member_id and amount to post a transaction.", fiber.Map{
		"fields":  []string{"member_id", "amount"},
		"members": members,
	})
}

// AddTransaction posts a signed amount against a member. The transaction row
// and the balance update commit as one unit, so the log and the balance can
// never be observed disagreeing.
func AddTransaction(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedTransaction").(*ledgerValidator.AddTransactionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var member models.Member
	if err := db.Where("id = ? AND user_id = ?", reqData.MemberID, userId).First(&member).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Member not found!", nil)
	}

	transaction := models.Transaction{
		MemberID: member.ID,
		Amount:   reqData.ParsedAmount,
		Date:     time.Now().Format(models.DateLayout),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}
		return tx.Model(&models.Member{}).
			Where("id = ?", member.ID).
			UpdateColumn("balance", gorm.Expr("balance + ?", reqData.ParsedAmount)).Error
	})
	if err != nil {
		log.Printf("Error posting transaction for member %d: %v", member.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to post transaction!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Transaction posted!", fiber.Map{
		"transactionId": transaction.ID,
		"memberId":      member.ID,
		"amount":        transaction.Amount,
		"date":          transaction.Date,
	})
}

// History returns a member and its transactions in insertion order
func History(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	memberId, err := c.ParamsInt("member_id")
	if err != nil || memberId < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid member ID!", nil)
	}

	db := database.Database.Db

	var member models.Member
	if err := db.Where("id = ? AND user_id = ?", memberId, userId).First(&member).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Member not found!", nil)
	}

	var transactions []models.Transaction
	if err := db.Where("member_id = ?", member.ID).Order("id").Find(&transactions).Error; err != nil {
		log.Printf("Error fetching history for member %d: %v", member.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "History fetched!", fiber.Map{
		"member":       member,
		"transactions": transactions,
	})
}
