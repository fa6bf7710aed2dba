// Package queue carries ApplicationAccepted events over RabbitMQ so that email
// delivery can run outside the API process.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/justsurfingit/job-board/internal/events"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const RoutingKeyAccepted = "application.accepted"

var errDeliveriesClosed = errors.New("amqp deliveries channel closed")

// declare sets up the durable topic exchange and the queue bound to it.
func declare(ch *amqp.Channel, exchange, queue string) error {
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	if queue == "" {
		return nil
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}
	if err := ch.QueueBind(queue, RoutingKeyAccepted, exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", queue, err)
	}
	return nil
}

// Publisher is an events.Dispatcher that publishes to the exchange.
type Publisher struct {
	Conn     *amqp.Connection
	Exchange string
	Queue    string
	Logger   *zap.Logger

	mu sync.Mutex
	ch *amqp.Channel
}

func NewPublisher(conn *amqp.Connection, exchange, queue string, log *zap.Logger) (*Publisher, error) {
	p := &Publisher{Conn: conn, Exchange: exchange, Queue: queue, Logger: log}
	if _, err := p.channel(); err != nil {
		return nil, err
	}
	return p, nil
}

// channel returns the open channel, reopening it after a channel error.
func (p *Publisher) channel() (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		return p.ch, nil
	}
	ch, err := p.Conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	// Declaring the queue too keeps events published before the first
	// notifier starts.
	if err := declare(ch, p.Exchange, p.Queue); err != nil {
		ch.Close()
		return nil, err
	}
	closed := ch.NotifyClose(make(chan *amqp.Error, 1))
	go func() {
		if err := <-closed; err != nil {
			p.Logger.Warn("amqp channel closed", zap.Error(err))
		}
		p.mu.Lock()
		if p.ch == ch {
			p.ch = nil
		}
		p.mu.Unlock()
	}()
	p.ch = ch
	return ch, nil
}

func (p *Publisher) Dispatch(ctx context.Context, event events.ApplicationAccepted) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	ch, err := p.channel()
	if err != nil {
		return err
	}
	err = ch.Publish(p.Exchange, RoutingKeyAccepted, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ApplicationID.String(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	p.Logger.Info("acceptance event published",
		zap.String("application_id", event.ApplicationID.String()),
		zap.String("exchange", p.Exchange),
	)
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		return nil
	}
	err := p.ch.Close()
	p.ch = nil
	return err
}

// Consumer runs a pool of workers that hand each event to a Dispatcher,
// normally a NotifyDispatcher wrapping the email sender.
type Consumer struct {
	Conn     *amqp.Connection
	Exchange string
	Queue    string
	Workers  int
	Handler  events.Dispatcher
	Logger   *zap.Logger
}

// Run blocks until ctx is cancelled or the deliveries channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	ch, err := c.Conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()
	if err := declare(ch, c.Exchange, c.Queue); err != nil {
		return err
	}
	workers := c.Workers
	if workers < 1 {
		workers = 1
	}
	if err := ch.Qos(workers, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	msgs, err := ch.Consume(c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.Queue, err)
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := range workers {
		c.Logger.Info("notifier worker started", zap.Int("worker", i+1))
		go func(id int) {
			defer wg.Done()
			c.work(ctx, id, msgs)
		}(i + 1)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}
	return errDeliveriesClosed
}

func (c *Consumer) work(ctx context.Context, id int, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			c.handle(ctx, id, msg)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, id int, msg amqp.Delivery) {
	var event events.ApplicationAccepted
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.Logger.Error("dropping malformed event", zap.Int("worker", id), zap.Error(err))
		_ = msg.Nack(false, false)
		return
	}
	log := c.Logger.With(
		zap.Int("worker", id),
		zap.String("application_id", event.ApplicationID.String()),
	)
	if err := c.Handler.Dispatch(ctx, event); err != nil {
		log.Error("acceptance email failed, dropping event", zap.Error(err))
		_ = msg.Nack(false, false)
		return
	}
	if err := msg.Ack(false); err != nil {
		log.Warn("ack failed", zap.Error(err))
	}
}
