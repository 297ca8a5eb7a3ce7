package bootstrap

import (
	"context"

	"mcdee-marketplace/internal/infra/broker"
	"mcdee-marketplace/internal/pkg/config"
	"mcdee-marketplace/internal/usecase/shared"

	"go.uber.org/fx"
)

var BrokerModule = fx.Module("broker",
	fx.Provide(
		fx.Annotate(
			NewPublisher,
			fx.As(new(shared.Publisher)),
		),
	),
)

func NewPublisher(lc fx.Lifecycle, cfg config.Config) *broker.Publisher {
	publisher := broker.NewPublisher(cfg.AMQP)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})

	return publisher
}
