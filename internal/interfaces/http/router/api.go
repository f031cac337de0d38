package router

import (
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/identity"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/interfaces/http/handler"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups the resource handlers served under /api/{version}
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Notification *handler.NotificationHandler
	Carrier      *handler.CarrierHandler
	Customer     *handler.CustomerHandler
	Seller       *handler.SellerHandler
	Order        *handler.OrderHandler
	DeliveryNote *handler.DeliveryNoteHandler
	Invoice      *handler.InvoiceHandler
	PaymentOrder *handler.PaymentOrderHandler
}

// APIConfig carries the middleware the route table is assembled with
type APIConfig struct {
	// Authenticate validates the bearer token; normally middleware.JWTAuth
	Authenticate gin.HandlerFunc
	// AuthRateLimit throttles the public credential endpoints; nil disables it
	AuthRateLimit gin.HandlerFunc
	// Idempotency guards resource creation against replays; nil disables it
	Idempotency gin.HandlerFunc
}

// Role sets allowed per resource
var (
	staffRoles     = []identity.Role{identity.RoleAdmin, identity.RoleLogistics, identity.RolePurchasing, identity.RolePayments}
	logisticsRoles = []identity.Role{identity.RoleAdmin, identity.RoleLogistics}
	purchaseRoles  = []identity.Role{identity.RoleAdmin, identity.RolePurchasing}
	paymentRoles   = []identity.Role{identity.RoleAdmin, identity.RolePayments}
	adminRoles     = []identity.Role{identity.RoleAdmin}
)

// crudHandler is the method set shared by the resource handlers
type crudHandler interface {
	List(c *gin.Context)
	GetByID(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	BulkDelete(c *gin.Context)
}

// APIGroups builds the route groups. Every group except the public part of
// /auth requires authentication; role checks run per route.
func APIGroups(h Handlers, cfg APIConfig) []RouteRegistrar {
	authn := cfg.Authenticate
	resource := func(name, prefix string, h crudHandler, writeRoles []identity.Role) *DomainGroup {
		return resourceGroup(name, prefix, h, authn, cfg.Idempotency, staffRoles, writeRoles)
	}

	orders := resource("orders", "/orders", h.Order, purchaseRoles)
	orders.PATCH("/:id/status", middleware.RequireRoles(purchaseRoles...), h.Order.ChangeStatus)

	deliveryNotes := resource("delivery-notes", "/delivery-notes", h.DeliveryNote, logisticsRoles)
	deliveryNotes.PATCH("/:id/status", middleware.RequireRoles(logisticsRoles...), h.DeliveryNote.ChangeStatus)

	return []RouteRegistrar{
		authGroup(h.Auth, cfg),
		userGroup(h.User, authn),
		notificationGroup(h.Notification, authn),
		resource("carriers", "/carriers", h.Carrier, logisticsRoles),
		resource("customers", "/customers", h.Customer, logisticsRoles),
		resource("sellers", "/sellers", h.Seller, logisticsRoles),
		orders,
		deliveryNotes,
		resource("invoices", "/invoices", h.Invoice, paymentRoles),
		resource("payment-orders", "/payment-orders", h.PaymentOrder, paymentRoles),
	}
}

func resourceGroup(name, prefix string, h crudHandler, authn, idempotency gin.HandlerFunc, readRoles, writeRoles []identity.Role) *DomainGroup {
	read := middleware.RequireRoles(readRoles...)
	write := middleware.RequireRoles(writeRoles...)
	create := []gin.HandlerFunc{write}
	if idempotency != nil {
		create = append(create, idempotency)
	}

	g := NewDomainGroup(name, prefix).Use(authn)
	g.GET("", read, h.List)
	g.GET("/:id", read, h.GetByID)
	g.POST("", append(create, h.Create)...)
	g.PUT("/:id", write, h.Update)
	g.DELETE("/:id", write, h.Delete)
	g.POST("/bulk-delete", write, h.BulkDelete)
	return g
}

func authGroup(h *handler.AuthHandler, cfg APIConfig) *DomainGroup {
	public := []gin.HandlerFunc{}
	if cfg.AuthRateLimit != nil {
		public = append(public, cfg.AuthRateLimit)
	}

	g := NewDomainGroup("auth", "/auth")
	g.POST("/login", append(public, h.Login)...)
	g.POST("/refresh", append(public, h.Refresh)...)
	g.POST("/register", append(public, h.Register)...)
	g.POST("/logout", cfg.Authenticate, h.Logout)
	g.GET("/me", cfg.Authenticate, h.Me)
	return g
}

// userGroup serves /users/me* to every authenticated user and the rest of
// /users to admins only.
func userGroup(h *handler.UserHandler, authn gin.HandlerFunc) *DomainGroup {
	admin := middleware.RequireRoles(adminRoles...)

	g := NewDomainGroup("users", "/users").Use(authn)
	g.GET("/me", h.GetMe)
	g.PUT("/me", h.UpdateMe)
	g.PUT("/me/image", h.UploadImage)
	g.DELETE("/me/image", h.DeleteImage)
	g.GET("/me/image", h.GetMyImageURL)

	g.GET("", admin, h.List)
	g.GET("/:id", admin, h.GetByID)
	g.POST("", admin, h.Create)
	g.PATCH("/:id/role", admin, h.UpdateRole)
	g.DELETE("/:id", admin, h.Delete)
	g.POST("/bulk-delete", admin, h.BulkDelete)
	g.GET("/:id/image", admin, h.GetImageURL)
	return g
}

func notificationGroup(h *handler.NotificationHandler, authn gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("notifications", "/notifications").Use(authn)
	g.GET("", h.List)
	g.GET("/unread-count", h.UnreadCount)
	g.PATCH("/read-all", h.MarkAllAsRead)
	g.PATCH("/:id/read", h.MarkAsRead)
	g.DELETE("/:id", h.Delete)
	g.POST("/bulk-delete", h.BulkDelete)
	return g
}
