package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/config"
	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/events"
)

// The housekeeping worker tails the lifecycle queue and turns reservation
// events into work notes for the cleaning crew. It is intentionally dumb:
// the API owns room state, the worker only reports what changed.
func main() {
	cfg := config.LoadConfig()
	if cfg.AMQPURL == "" {
		log.Fatal("AMQP_URL is required for the housekeeping worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("housekeeping worker consuming %q", cfg.LifecycleQueue)
	events.Consume(ctx, cfg.AMQPURL, cfg.LifecycleQueue, handleEvent)
	log.Println("housekeeping worker stopped")
}

func handleEvent(_ context.Context, msg events.LifecycleMessage) error {
	switch msg.Event {
	case domain.EventReservationCheckedOut:
		log.Printf("room %s needs cleaning (reservation %s checked out at %s)",
			msg.RoomNumber, msg.Number, msg.OccurredAt.Format("15:04"))
	case domain.EventReservationCancelled:
		log.Printf("room %s released (reservation %s cancelled)", msg.RoomNumber, msg.Number)
	case domain.EventRoomCleaned:
		log.Printf("room %s back in service", msg.RoomNumber)
	case domain.EventRoomStatusChanged:
		log.Printf("room %s set to %s", msg.RoomNumber, msg.RoomStatus)
	case domain.EventReservationCheckedIn:
		log.Printf("room %s occupied (reservation %s)", msg.RoomNumber, msg.Number)
	case domain.EventOrderCreated:
		log.Printf("room %s ordered room service (order %s)", msg.RoomNumber, msg.OrderID)
	}
	return nil
}
