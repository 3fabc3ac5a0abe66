package router

import (
	"cardPilot/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired, selfOrAdmin, adminOnly echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)

	users.POST("/logout", handler.Logout, authRequired)
	users.GET("/:id", handler.GetUserByID, authRequired, selfOrAdmin)
	users.PUT("/:id", handler.UpdateUser, authRequired, selfOrAdmin)
	users.DELETE("/:id", handler.DeleteUser, authRequired, adminOnly)
}

func SetupRecommendationRoutes(api *echo.Group, handler *rest.RecommendHandler, authRequired, selfOrAdmin echo.MiddlewareFunc) {
	reco := api.Group("/recommendations")

	reco.POST("", handler.Recommend, authRequired)
	reco.POST("/compare", handler.Compare, authRequired)
	reco.POST("/smart", handler.Smart, authRequired)
	reco.POST("/retune", handler.RetuneWeights, authRequired)
	reco.GET("/category/:categoryId", handler.CardsForCategory)
	reco.GET("/user/:id/best-cards", handler.BestCards, authRequired, selfOrAdmin)
}

func SetupCategoryRoutes(api *echo.Group, handler *rest.CategoryHandler, authRequired, adminOnly echo.MiddlewareFunc) {
	categories := api.Group("/categories")

	categories.GET("", handler.GetAllCategories)
	categories.GET("/:id", handler.GetCategoryByID)
	categories.POST("", handler.CreateCategory, authRequired, adminOnly)
	categories.PUT("/:id", handler.UpdateCategory, authRequired, adminOnly)
	categories.DELETE("/:id", handler.DeleteCategory, authRequired, adminOnly)
}

func SetupCatalogRoutes(api *echo.Group, handler *rest.CatalogHandler, authRequired, adminOnly echo.MiddlewareFunc) {
	// public catalog reads
	api.GET("/cards", handler.GetAllCards)
	api.GET("/cards/:id", handler.GetCardByID)
	api.GET("/cards/:id/rules", handler.GetRulesByCard)
	api.GET("/banks", handler.GetAllBanks)

	admin := api.Group("/admin", authRequired, adminOnly)

	admin.POST("/banks", handler.CreateBank)
	admin.PUT("/banks/:id", handler.UpdateBank)
	admin.DELETE("/banks/:id", handler.DeleteBank)

	admin.POST("/cards", handler.CreateCard)
	admin.PUT("/cards/:id", handler.UpdateCard)
	admin.PATCH("/cards/:id/toggle", handler.ToggleCardActive)
	admin.DELETE("/cards/:id", handler.DeleteCard)

	admin.POST("/cashback-rules", handler.CreateRule)
	admin.PUT("/cashback-rules/:id", handler.UpdateRule)
	admin.DELETE("/cashback-rules/:id", handler.DeleteRule)

	admin.POST("/exclusions", handler.AddExclusion)
	admin.DELETE("/exclusions/:id", handler.DeleteExclusion)
}

func SetupWalletRoutes(api *echo.Group, handler *rest.WalletHandler, authRequired echo.MiddlewareFunc) {
	wallet := api.Group("/wallet", authRequired)

	wallet.POST("/cards", handler.AddCard)
	wallet.POST("/cards/verify", handler.VerifyCard)
	wallet.GET("/cards", handler.GetWallet)
	wallet.PUT("/cards/:id", handler.UpdateCardNumbers)
	wallet.DELETE("/cards/:id", handler.RemoveCard)
}

func SetupExpenseRoutes(api *echo.Group, handler *rest.ExpenseHandler, authRequired echo.MiddlewareFunc) {
	expenses := api.Group("/expenses", authRequired)

	expenses.POST("", handler.AddExpense)
	expenses.GET("", handler.GetExpenses)
	expenses.GET("/summary", handler.GetSummary)
	expenses.DELETE("/:id", handler.DeleteExpense)
}
