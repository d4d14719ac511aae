package mq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DispatchExchange receives every ride and service request event.
const DispatchExchange = "dispatch_topic"

type RabbitMQ struct {
	url    string
	conn   *amqp.Connection
	ch     *amqp.Channel
	mu     sync.RWMutex
	closed bool
}

// Connect dials RabbitMQ with bounded retries and declares the dispatch exchange.
func Connect(ctx context.Context, url string) (*RabbitMQ, error) {
	mq := &RabbitMQ{url: url}

	const maxRetries = 5
	retryDelay := time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := mq.connect()
		if err == nil {
			log.Infow("rabbitmq connected", "attempt", attempt)
			return mq, nil
		}

		log.Warnw("rabbitmq connection attempt failed", "attempt", attempt, "max_retries", maxRetries, "error", err)
		if attempt == maxRetries {
			return nil, fmt.Errorf("connect rabbitmq after %d attempts: %w", maxRetries, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
			retryDelay *= 2
		}
	}
	return nil, errors.New("rabbitmq retry loop exited without result")
}

func (mq *RabbitMQ) connect() error {
	conn, err := amqp.Dial(mq.url)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(DispatchExchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare exchange %s: %w", DispatchExchange, err)
	}

	mq.mu.Lock()
	mq.conn = conn
	mq.ch = ch
	mq.mu.Unlock()
	return nil
}

// Publish sends a persistent JSON message.
func (mq *RabbitMQ) Publish(ctx context.Context, exchange, routingKey string, body []byte) error {
	mq.mu.RLock()
	ch := mq.ch
	mq.mu.RUnlock()

	if ch == nil {
		return errors.New("rabbitmq channel not available")
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return ch.PublishWithContext(
		publishCtx,
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
}

func (mq *RabbitMQ) Close() {
	mq.mu.Lock()
	defer mq.mu.Unlock()

	if mq.closed {
		return
	}
	mq.closed = true

	if mq.ch != nil {
		_ = mq.ch.Close()
	}
	if mq.conn != nil {
		_ = mq.conn.Close()
	}
	log.Info("rabbitmq connection closed")
}
