package model

import "time"

// Room status values stored in rooms.status. An inactive room is still
// available for rent; active/rented rooms no longer appear as vacant.
const (
	RoomStatusActive   = "active"
	RoomStatusInactive = "inactive"
	RoomStatusRented   = "rented"
)

// Room mirrors the `rooms` table. Monetary amounts are stored in VND as
// float64 to match the listing forms; utility costs default to zero.
//
// Fields:
//  ID               – primary key identifier.
//  Title            – listing headline.
//  Description      – free-form description.
//  RentPrice        – monthly rent.
//  Area             – floor area in square meters.
//  City             – address city/province name.
//  District         – address district name.
//  Street           – street address.
//  Link360          – optional URL to a 360° tour.
//  FurnitureDetails – description of included furniture.
//  ElectricityCost  – cost per kWh.
//  WaterCost        – cost per cubic meter.
//  WifiCost         – monthly wifi cost.
//  ParkingCost      – monthly parking cost.
//  Status           – active | inactive | rented.
//  CreatedAt        – timestamp of creation.
//  UpdatedAt        – timestamp of last update.
type Room struct {
	ID               uint64    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	RentPrice        float64   `json:"rentPrice"`
	Area             float64   `json:"area"`
	City             string    `json:"city"`
	District         string    `json:"district"`
	Street           string    `json:"street"`
	Link360          string    `json:"link360,omitempty"`
	FurnitureDetails string    `json:"furnitureDetails,omitempty"`
	ElectricityCost  float64   `json:"electricityCost"`
	WaterCost        float64   `json:"waterCost"`
	WifiCost         float64   `json:"wifiCost"`
	ParkingCost      float64   `json:"parkingCost"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// RoomImage is a row in `room_images`, one per uploaded media item. The
// service stores only URLs; the media files themselves live in external
// storage and are uploaded out of band.
type RoomImage struct {
	ID       uint64 `json:"id"`
	RoomID   uint64 `json:"roomId"`
	URL      string `json:"url"`
	PublicID string `json:"publicId,omitempty"`
}

// RoomFilter narrows ListRooms queries. Zero values mean "no constraint".
type RoomFilter struct {
	City     string
	District string
	MinPrice float64
	MaxPrice float64
}
