// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published when a tenant requests a booking. It
// carries enough information for downstream consumers (notifications,
// analytics) without querying the primary database.
type BookingCreatedEvent struct {
	BookingID   uint64  `json:"booking_id"`
	UserID      uint64  `json:"user_id"`
	RoomID      uint64  `json:"room_id"`
	RoomTitle   string  `json:"room_title"`
	City        string  `json:"city"`
	District    string  `json:"district"`
	TotalAmount float64 `json:"total_amount"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}
