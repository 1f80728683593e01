package repository

import (
	"context"
	"database/sql"

	"github.com/hoanvu/room-rental/internal/model"
)

// RoomRepo manages room listings and their image URL rows.
type RoomRepo struct{ DB *sql.DB }

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{DB: db} }

const roomColumns = "id,title,description,rent_price,area,city,district,street,link360,furniture_details,electricity_cost,water_cost,wifi_cost,parking_cost,status,created_at,updated_at"

// Create inserts a room and fills in its generated ID.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO rooms (title, description, rent_price, area, city, district, street, link360,
		 furniture_details, electricity_cost, water_cost, wifi_cost, parking_cost, status)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		room.Title, room.Description, room.RentPrice, room.Area, room.City, room.District, room.Street,
		room.Link360, room.FurnitureDetails, room.ElectricityCost, room.WaterCost, room.WifiCost,
		room.ParkingCost, room.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)
	return nil
}

// List returns rooms matching the filter, newest first.
func (r *RoomRepo) List(ctx context.Context, f model.RoomFilter) ([]model.Room, error) {
	query := "SELECT " + roomColumns + " FROM rooms WHERE 1=1"
	var args []interface{}
	if f.City != "" {
		query += " AND city=?"
		args = append(args, f.City)
	}
	if f.District != "" {
		query += " AND district=?"
		args = append(args, f.District)
	}
	if f.MinPrice > 0 {
		query += " AND rent_price >= ?"
		args = append(args, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		query += " AND rent_price <= ?"
		args = append(args, f.MaxPrice)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []model.Room
	for rows.Next() {
		var room model.Room
		if err := scanRoom(rows, &room); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// GetByID fetches a single room.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (model.Room, error) {
	var room model.Room
	row := r.DB.QueryRowContext(ctx, "SELECT "+roomColumns+" FROM rooms WHERE id=? LIMIT 1", id)
	if err := scanRoom(row, &room); err != nil {
		if err == sql.ErrNoRows {
			return model.Room{}, ErrNotFound
		}
		return model.Room{}, err
	}
	return room, nil
}

// Update persists the mutable fields of a room.
func (r *RoomRepo) Update(ctx context.Context, room *model.Room) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE rooms SET title=?, description=?, rent_price=?, area=?, city=?, district=?, street=?,
		 link360=?, furniture_details=?, electricity_cost=?, water_cost=?, wifi_cost=?, parking_cost=?, status=?
		 WHERE id=?`,
		room.Title, room.Description, room.RentPrice, room.Area, room.City, room.District, room.Street,
		room.Link360, room.FurnitureDetails, room.ElectricityCost, room.WaterCost, room.WifiCost,
		room.ParkingCost, room.Status, room.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is 0 both for a missing row and for a no-op update,
		// so double check existence before reporting not found.
		if _, gerr := r.GetByID(ctx, room.ID); gerr != nil {
			return gerr
		}
	}
	return nil
}

// UpdateStatus changes only a room's status.
func (r *RoomRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE rooms SET status=? WHERE id=?", status, id)
	return err
}

// Delete removes a room and its image rows.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM room_images WHERE room_id=?", id); err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, "DELETE FROM rooms WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddImage attaches an image URL to a room.
func (r *RoomRepo) AddImage(ctx context.Context, img *model.RoomImage) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO room_images (room_id, url, public_id) VALUES (?,?,?)",
		img.RoomID, img.URL, img.PublicID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	img.ID = uint64(id)
	return nil
}

// ImagesByRoom lists the image rows of a room.
func (r *RoomRepo) ImagesByRoom(ctx context.Context, roomID uint64) ([]model.RoomImage, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, room_id, url, public_id FROM room_images WHERE room_id=? ORDER BY id", roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var imgs []model.RoomImage
	for rows.Next() {
		var img model.RoomImage
		if err := rows.Scan(&img.ID, &img.RoomID, &img.URL, &img.PublicID); err != nil {
			return nil, err
		}
		imgs = append(imgs, img)
	}
	return imgs, rows.Err()
}

// DistrictCount is one row of the top-districts aggregation used on the
// landing page.
type DistrictCount struct {
	District  string `json:"district"`
	RoomCount int    `json:"roomCount"`
}

// TopDistricts returns the districts of a city with the most vacant rooms.
func (r *RoomRepo) TopDistricts(ctx context.Context, city string, limit int) ([]DistrictCount, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT district, COUNT(*) AS room_count FROM rooms
		 WHERE city=? AND status=? GROUP BY district ORDER BY room_count DESC LIMIT ?`,
		city, model.RoomStatusInactive, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DistrictCount
	for rows.Next() {
		var dc DistrictCount
		if err := rows.Scan(&dc.District, &dc.RoomCount); err != nil {
			return nil, err
		}
		out = append(out, dc)
	}
	return out, rows.Err()
}

func scanRoom(row rowScanner, room *model.Room) error {
	return row.Scan(&room.ID, &room.Title, &room.Description, &room.RentPrice, &room.Area,
		&room.City, &room.District, &room.Street, &room.Link360, &room.FurnitureDetails,
		&room.ElectricityCost, &room.WaterCost, &room.WifiCost, &room.ParkingCost,
		&room.Status, &room.CreatedAt, &room.UpdatedAt)
}
