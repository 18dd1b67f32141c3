package ledgerController

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"khata/database"
	"khata/middleware"
	"khata/models"
	ledgerValidator "khata/validators/ledger"
)

// Index lists the session user's members in insertion order
func Index(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var members []models.Member
	if err := database.Database.Db.Where("user_id = ?", userId).Order("id").Find(&members).Error; err != nil {
		log.Printf("Error listing members: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch members!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Members fetched!", fiber.Map{
		"members": members,
	})
}

// AddMemberForm describes the add-member form for the client
func AddMemberForm(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submit a name to add a member.", fiber.Map{
		"fields": []string{"name"},
	})
}

// AddMember creates a member with balance 0 owned by the session user
func AddMember(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedMember").(*ledgerValidator.AddMemberRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	member := models.Member{
		Name:    reqData.Name,
		Balance: 0,
		UserID:  userId,
	}

	if err := database.Database.Db.Create(&member).Error; err != nil {
		log.Printf("Error saving member to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add member!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Member added!", member)
}

// DeleteMember removes a member and its transactions. Transactions go first so
// the member row never dangles under an engine that enforces the foreign key.
func DeleteMember(c *fiber.Ctx) error {
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

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", member.ID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&member).Error
	})
	if err != nil {
		log.Printf("Error deleting member %d: %v", member.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete member!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Member deleted!", nil)
}

// FilterMembers lists members by balance sign: positive means balance >= 0,
// negative means balance < 0, anything else lists all.
func FilterMembers(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	query := database.Database.Db.Where("user_id = ?", userId)
	switch c.Params("type") {
	case "positive":
		query = query.Where("balance >= 0")
	case "negative":
		query = query.Where("balance < 0")
	}

	var members []models.Member
	if err := query.Order("id").Find(&members).Error; err != nil {
		log.Printf("Error filtering members: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch members!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Members fetched!", fiber.Map{
		"members": members,
	})
}

// SearchForm describes the search form for the client
func SearchForm(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submit a query to search members.", fiber.Map{
		"fields":  []string{"query"},
		"members": []models.Member{},
	})
}

// SearchMembers matches member names case-insensitively against the query.
// An empty query returns no members, not all of them.
func SearchMembers(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedSearch").(*ledgerValidator.SearchRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	members := []models.Member{}
	if reqData.Query != "" {
		err := database.Database.Db.
			Where("user_id = ? AND LOWER(name) LIKE LOWER(?)", userId, "%"+reqData.Query+"%").
			Order("id").
			Find(&members).Error
		if err != nil {
			log.Printf("Error searching members: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to search members!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Members fetched!", fiber.Map{
		"members": members,
	})
}
