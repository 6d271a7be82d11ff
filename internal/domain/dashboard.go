package domain

import (
	"context"
	"time"
)

// DashboardSummary is the front-desk overview: live room counts plus the
// day's traffic and revenue.
type DashboardSummary struct {
	Rooms          map[RoomStatus]int `json:"rooms"`
	ArrivalsToday  int                `json:"arrivalsToday"`
	InHouse        int                `json:"inHouse"`
	DeparturesLeft int                `json:"departuresLeft"`
	RevenueToday   float64            `json:"revenueToday"`
	OpenOrders     int                `json:"openOrders"`
	GeneratedAt    time.Time          `json:"generatedAt"`
}

// DashboardRepository reads aggregate counters straight from storage.
type DashboardRepository interface {
	// RoomCounts returns the number of rooms per status.
	RoomCounts(ctx context.Context) (map[RoomStatus]int, error)
	// ReservationCounts returns arrivals, in-house and pending departures
	// for the day containing now.
	ReservationCounts(ctx context.Context, now time.Time) (arrivals, inHouse, departures int, err error)
	// RevenueSince sums checked-out reservation totals from a given instant.
	RevenueSince(ctx context.Context, from time.Time) (float64, error)
	// OpenOrderCount returns the number of undelivered orders.
	OpenOrderCount(ctx context.Context) (int, error)
}
