package components

import (
	"mcdee-marketplace/internal/handler"
	"mcdee-marketplace/internal/handler/api"
	"mcdee-marketplace/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewListingHandler,
		api.NewBookingHandler,
		api.NewPaymentHandler,
		api.NewProductHandler,
		api.NewCartHandler,
		api.NewOrderHandler,
		api.NewServiceHandler,
		api.NewKYCHandler,
		api.NewAdminHandler,
		api.NewClientErrorHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(
		middleware.RegisterValidators,
		handler.NewRouter,
	),
)

type handlerParams struct {
	fx.In

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

func NewHandlers(p handlerParams) handler.Handlers {
	return handler.Handlers{
		Auth:        p.Auth,
		Listing:     p.Listing,
		Booking:     p.Booking,
		Payment:     p.Payment,
		Product:     p.Product,
		Cart:        p.Cart,
		Order:       p.Order,
		Service:     p.Service,
		KYC:         p.KYC,
		Admin:       p.Admin,
		ClientError: p.ClientError,
	}
}
