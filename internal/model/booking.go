package model

import "time"

// Booking status values stored in bookings.status.
const (
	BookingStatusPending   = "pending"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Booking mirrors the `bookings` table. TotalAmount is copied from the
// room's rent price at creation time so later price edits do not change
// what the tenant agreed to pay.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – the tenant who requested the booking.
//  RoomID      – the room being booked.
//  TotalAmount – agreed amount, copied from rooms.rent_price.
//  Status      – pending | completed | cancelled.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Booking struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"userId"`
	RoomID      uint64    `json:"roomId"`
	TotalAmount float64   `json:"totalAmount"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
