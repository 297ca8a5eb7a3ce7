package bootstrap

import (
	"mcdee-marketplace/internal/infra/gateway"
	"mcdee-marketplace/internal/pkg/config"
	"mcdee-marketplace/internal/usecase/shared"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			func(cfg config.Config) *gateway.Paystack {
				return gateway.NewPaystack(cfg.Payment)
			},
			fx.As(new(shared.PaymentGateway)),
		),
	),
)
