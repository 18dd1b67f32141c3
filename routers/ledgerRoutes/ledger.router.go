package ledgerRoutes

import (
	"github.com/gofiber/fiber/v2"

	ledgerController "khata/controllers/ledger"
	"khata/middleware"
	ledgerValidator "khata/validators/ledger"
)

func SetupLedgerRoutes(app *fiber.App) {
	app.Get("/", middleware.RequireSession, ledgerController.Index)

	app.Get("/add_member", middleware.RequireSession, ledgerController.AddMemberForm)
	app.Post("/add_member", middleware.RequireSession, ledgerValidator.AddMember(), ledgerController.AddMember)

	app.Get("/add_transaction", middleware.RequireSession, ledgerController.AddTransactionForm)
	app.Post("/add_transaction", middleware.RequireSession, ledgerValidator.AddTransaction(), ledgerController.AddTransaction)

	app.Get("/history/:member_id", middleware.RequireSession, ledgerController.History)
	app.Get("/delete/:member_id", middleware.RequireSession, ledgerController.DeleteMember)

	app.Get("/filter/:type", middleware.RequireSession, ledgerController.FilterMembers)

	app.Get("/search", middleware.RequireSession, ledgerController.SearchForm)
	app.Post("/search", middleware.RequireSession, ledgerValidator.Search(), ledgerController.SearchMembers)
}
