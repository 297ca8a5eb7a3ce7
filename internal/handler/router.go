package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"mcdee-marketplace/internal/domain/user"
	"mcdee-marketplace/internal/handler/api"
	"mcdee-marketplace/internal/handler/middleware"
	"mcdee-marketplace/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

// Handlers groups every API handler mounted by the router.
type Handlers struct {
	Auth        *api.AuthHandler
	Listing     *api.ListingHandler
	Booking     *api.BookingHandler
	Payment     *api.PaymentHandler
	Product     *api.ProductHandler
	Cart        *api.CartHandler
	Order       *api.OrderHandler
	Service     *api.ServiceHandler
	KYC         *api.KYCHandler
	Admin       *api.AdminHandler
	ClientError *api.ClientErrorHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.Middleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := authMiddleware.RequireAuth()

	apiGroup := engine.Group("/api")
	{
		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/booking-statuses", Handler: h.Booking.Statuses},
			{Method: http.MethodGet, Path: "/listings", Handler: h.Listing.List},
			{Method: http.MethodGet, Path: "/listings/:id", Handler: h.Listing.Get},
			{Method: http.MethodGet, Path: "/products", Handler: h.Product.List},
			{Method: http.MethodGet, Path: "/products/:id", Handler: h.Product.Get},
			{Method: http.MethodGet, Path: "/service-vendors", Handler: h.Service.ListVendors},
			{Method: http.MethodPost, Path: "/payments/webhook", Handler: h.Payment.Webhook},
			{Method: http.MethodPost, Path: "/client-errors", Handler: h.ClientError.Report, Mw: []gin.HandlerFunc{authMiddleware.OptionalAuth()}},
		})

		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/register", Handler: h.Auth.Register},
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
				{Method: http.MethodPost, Path: "/refresh", Handler: h.Auth.Refresh},
			})

			authRequired := auth.Group("")
			authRequired.Use(requireAuth)
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: h.Auth.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
			})
		}

		member := apiGroup.Group("")
		member.Use(requireAuth)
		{
			addRoutes(member, []route{
				{Method: http.MethodPost, Path: "/bookings", Handler: h.Booking.Create},
				{Method: http.MethodGet, Path: "/bookings", Handler: h.Booking.List},
				{Method: http.MethodGet, Path: "/bookings/:id", Handler: h.Booking.Get},
				{Method: http.MethodPost, Path: "/bookings/:id/pay", Handler: h.Booking.Pay},
				{Method: http.MethodPost, Path: "/bookings/:id/check-in", Handler: h.Booking.CheckIn},
				{Method: http.MethodPost, Path: "/bookings/:id/check-out", Handler: h.Booking.CheckOut},
				{Method: http.MethodPost, Path: "/bookings/:id/cancel", Handler: h.Booking.Cancel},

				{Method: http.MethodGet, Path: "/payments/verify", Handler: h.Payment.Verify},

				{Method: http.MethodGet, Path: "/cart", Handler: h.Cart.Get},
				{Method: http.MethodPost, Path: "/cart/items", Handler: h.Cart.AddItem},
				{Method: http.MethodPatch, Path: "/cart/items/:id", Handler: h.Cart.UpdateItem},
				{Method: http.MethodDelete, Path: "/cart/items/:id", Handler: h.Cart.RemoveItem},
				{Method: http.MethodPost, Path: "/cart/checkout", Handler: h.Cart.Checkout},

				{Method: http.MethodGet, Path: "/orders", Handler: h.Order.List},
				{Method: http.MethodPost, Path: "/orders/:id/pay", Handler: h.Order.Pay},
				{Method: http.MethodPost, Path: "/orders/:id/cancel", Handler: h.Order.Cancel},

				{Method: http.MethodPost, Path: "/service-orders", Handler: h.Service.CreateOrder},
				{Method: http.MethodGet, Path: "/service-orders", Handler: h.Service.ListOrders},
				{Method: http.MethodPost, Path: "/service-orders/:id/pay", Handler: h.Service.Pay},
				{Method: http.MethodPost, Path: "/service-orders/:id/cancel", Handler: h.Service.Cancel},
			})
		}

		vendor := apiGroup.Group("/vendor")
		vendor.Use(requireAuth, authMiddleware.RequireRoleAtLeast(user.RoleVendor))
		{
			addRoutes(vendor, []route{
				{Method: http.MethodGet, Path: "/listings", Handler: h.Listing.VendorList},
				{Method: http.MethodPost, Path: "/listings", Handler: h.Listing.Create},
				{Method: http.MethodPut, Path: "/listings/:id", Handler: h.Listing.Update},
				{Method: http.MethodDelete, Path: "/listings/:id", Handler: h.Listing.Deactivate},

				{Method: http.MethodGet, Path: "/bookings", Handler: h.Booking.VendorList},
				{Method: http.MethodPost, Path: "/bookings/:id/approve", Handler: h.Booking.Approve},

				{Method: http.MethodGet, Path: "/products", Handler: h.Product.VendorList},
				{Method: http.MethodPost, Path: "/products", Handler: h.Product.Create},
				{Method: http.MethodPut, Path: "/products/:id", Handler: h.Product.Update},
				{Method: http.MethodDelete, Path: "/products/:id", Handler: h.Product.Deactivate},

				{Method: http.MethodGet, Path: "/orders", Handler: h.Order.VendorList},
				{Method: http.MethodPost, Path: "/orders/:id/respond", Handler: h.Order.Respond},
				{Method: http.MethodPost, Path: "/orders/:id/complete", Handler: h.Order.Complete},

				{Method: http.MethodPut, Path: "/service-profile", Handler: h.Service.UpsertProfile},
				{Method: http.MethodPost, Path: "/service-pricing", Handler: h.Service.CreatePricing},
				{Method: http.MethodGet, Path: "/service-orders", Handler: h.Service.VendorListOrders},
				{Method: http.MethodPost, Path: "/service-orders/:id/respond", Handler: h.Service.Respond},
				{Method: http.MethodPost, Path: "/service-orders/:id/complete", Handler: h.Service.Complete},

				{Method: http.MethodPost, Path: "/kyc", Handler: h.KYC.Submit},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(requireAuth, authMiddleware.RequireRoleAtLeast(user.RoleAdmin))
		{
			addRoutes(admin, []route{
				{Method: http.MethodGet, Path: "/kyc", Handler: h.KYC.List},
				{Method: http.MethodPost, Path: "/kyc/:id/approve", Handler: h.KYC.Approve},
				{Method: http.MethodPost, Path: "/kyc/:id/reject", Handler: h.KYC.Reject},
				{Method: http.MethodGet, Path: "/vendors", Handler: h.Admin.Vendors},
				{Method: http.MethodGet, Path: "/dashboard", Handler: h.Admin.Dashboard},
				{Method: http.MethodGet, Path: "/bookings", Handler: h.Booking.AdminList},
				{Method: http.MethodPatch, Path: "/bookings/:id/status", Handler: h.Booking.UpdateStatus},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
