package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kasirhub/pos-app/controllers"
	"github.com/kasirhub/pos-app/events"
	"github.com/kasirhub/pos-app/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	locationCtrl := controllers.NewLocationController(db)
	categoryCtrl := controllers.NewCategoryController(db)
	productCtrl := controllers.NewProductController(db)
	modifierCtrl := controllers.NewModifierController(db)
	comboCtrl := controllers.NewComboController(db)
	orderCtrl := controllers.NewOrderController(db)
	paymentCtrl := controllers.NewPaymentController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.POST("/register", userCtrl.Register)
	r.POST("/login", userCtrl.Login)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())

	api.GET("/profile", userCtrl.GetProfile)

	// Event stream (order/payment lifecycle)
	api.GET("/events/ws", events.Handler)

	// LOCATIONS
	api.GET("/locations", locationCtrl.GetAllLocations)
	api.POST("/locations", locationCtrl.CreateLocation)
	api.PATCH("/locations/:location_id", locationCtrl.UpdateLocation)
	api.DELETE("/locations/:location_id", locationCtrl.DeleteLocation)

	// CATEGORIES
	api.GET("/categories/tree", categoryCtrl.GetCategoryTree)
	api.POST("/categories", categoryCtrl.CreateCategory)
	api.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
	api.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)
	api.POST("/categories/relationships", categoryCtrl.AddParentRelationship)
	api.DELETE("/categories/relationships/:parent_id/:sub_id", categoryCtrl.RemoveParentRelationship)

	// PRODUCTS
	api.GET("/products", productCtrl.GetAllProducts)
	api.POST("/products", productCtrl.CreateProduct)
	api.GET("/products/:product_id", productCtrl.GetProductByID)
	api.PATCH("/products/:product_id", productCtrl.UpdateProduct)
	api.DELETE("/products/:product_id", productCtrl.DeleteProduct)
	api.GET("/products/:product_id/price", productCtrl.GetEffectivePrice)
	api.POST("/products/:product_id/location-prices", productCtrl.SetLocationPrice)
	api.DELETE("/products/:product_id/location-prices/:location_id", productCtrl.RemoveLocationPrice)
	api.GET("/products/:product_id/modifier-groups", productCtrl.GetProductModifierGroups)
	api.POST("/products/:product_id/modifier-groups", productCtrl.LinkModifierGroup)
	api.DELETE("/products/:product_id/modifier-groups/:group_id", productCtrl.UnlinkModifierGroup)

	// COMBOS
	api.GET("/products/:product_id/combo-items", comboCtrl.GetComboItems)
	api.PUT("/products/:product_id/combo-items", comboCtrl.SetComboItems)
	api.GET("/products/:product_id/expand", comboCtrl.ExpandCombo)

	// MODIFIER GROUPS
	api.GET("/modifier-groups", modifierCtrl.GetAllGroups)
	api.POST("/modifier-groups", modifierCtrl.CreateGroup)
	api.POST("/modifier-groups/:group_id/modifiers", modifierCtrl.AddModifier)
	api.PATCH("/modifiers/:modifier_id", modifierCtrl.UpdateModifier)

	// ORDERS
	api.GET("/orders", orderCtrl.GetAllOrders)
	api.POST("/orders", orderCtrl.CreateOrder)
	api.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	api.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)

	// PAYMENTS
	api.POST("/orders/:order_id/payments", paymentCtrl.ApplyPayment)
	api.GET("/orders/:order_id/payments", paymentCtrl.GetOrderPayments)
	api.POST("/orders/:order_id/refund", paymentCtrl.RefundOrder)

	return r
}
