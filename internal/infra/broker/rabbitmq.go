// Package broker publishes domain events to RabbitMQ.
package broker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"mcdee-marketplace/internal/pkg/config"
	"mcdee-marketplace/internal/pkg/errs"

	amqp "github.com/streadway/amqp"
)

// Publisher dials lazily on first publish and redials after the connection
// drops, so the API can start while the broker is down.
type Publisher struct {
	url      string
	exchange string

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewPublisher(cfg config.AMQPConfig) *Publisher {
	return &Publisher{url: cfg.URL, exchange: cfg.Exchange}
}

func (p *Publisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channelLocked()
	if err != nil {
		return err
	}

	err = ch.Publish(
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		p.resetLocked()
		return errs.Wrapf(err, "failed to publish %s", routingKey)
	}
	return nil
}

func (p *Publisher) channelLocked() (*amqp.Channel, error) {
	if p.channel != nil && p.conn != nil && !p.conn.IsClosed() {
		return p.channel, nil
	}
	p.resetLocked()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, errs.Wrap(err, "failed to connect to RabbitMQ")
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errs.Wrap(err, "failed to open channel")
	}
	err = ch.ExchangeDeclare(
		p.exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, errs.Wrapf(err, "failed to declare exchange %s", p.exchange)
	}

	slog.Info("RabbitMQ publisher connected", "exchange", p.exchange)
	p.conn = conn
	p.channel = ch
	return ch, nil
}

func (p *Publisher) resetLocked() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil && !p.conn.IsClosed() {
		_ = p.conn.Close()
	}
	p.channel = nil
	p.conn = nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
	return nil
}
