package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes one decoded lifecycle message. Returning an error leaves
// the delivery unacked so the broker redelivers it.
type Handler func(ctx context.Context, msg LifecycleMessage) error

// Consume reads the queue until ctx is cancelled, reconnecting with backoff
// when the broker drops the connection.
func Consume(ctx context.Context, url, queue string, handler Handler) {
	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := consumeOnce(ctx, url, queue, handler); err != nil {
			log.Printf("consumer: connection lost (%v), retrying in %s", err, backoff)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func consumeOnce(ctx context.Context, url, queue string, handler Handler) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return err
	}

	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	log.Printf("consumer: listening on %s", queue)
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return amqp.ErrClosed
			}
			var msg LifecycleMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				log.Printf("consumer: dropping malformed message: %v", err)
				d.Nack(false, false)
				continue
			}
			if err := handler(ctx, msg); err != nil {
				log.Printf("consumer: handler failed for %s: %v", msg.Event, err)
				d.Nack(false, true)
				continue
			}
			d.Ack(false)
		}
	}
}
