package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hoanvu/room-rental/internal/model"
	"github.com/hoanvu/room-rental/internal/repository"
)

// RoomHandler serves the public listing endpoints and the admin room
// management surface.
type RoomHandler struct {
	Rooms *repository.RoomRepo
}

func NewRoomHandler(r *repository.RoomRepo) *RoomHandler {
	return &RoomHandler{Rooms: r}
}

type roomReq struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	RentPrice        float64  `json:"rentPrice"`
	Area             float64  `json:"area"`
	City             string   `json:"city"`
	District         string   `json:"district"`
	Street           string   `json:"street"`
	Link360          string   `json:"link360"`
	FurnitureDetails string   `json:"furnitureDetails"`
	ElectricityCost  float64  `json:"electricityCost"`
	WaterCost        float64  `json:"waterCost"`
	WifiCost         float64  `json:"wifiCost"`
	ParkingCost      float64  `json:"parkingCost"`
	Status           string   `json:"status"`
	ImageURLs        []string `json:"imageUrls"`
}

type roomResp struct {
	model.Room
	Images []model.RoomImage `json:"images"`
}

// List returns rooms filtered by optional city/district/minPrice/maxPrice
// query parameters, newest first.
// Example: GET /v1/rooms?city=Hà Nội&district=Cầu Giấy&minPrice=2000000&maxPrice=4000000
func (h *RoomHandler) List(c echo.Context) error {
	filter := model.RoomFilter{
		City:     c.QueryParam("city"),
		District: c.QueryParam("district"),
	}
	if v := c.QueryParam("minPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = f
		}
	}
	if v := c.QueryParam("maxPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = f
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rooms, err := h.Rooms.List(ctx, filter)
	if err != nil {
		return serverError(c, "list rooms", err)
	}
	return c.JSON(http.StatusOK, rooms)
}

// Get returns one room with its image rows.
func (h *RoomHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return serverError(c, "get room", err)
	}
	images, err := h.Rooms.ImagesByRoom(ctx, id)
	if err != nil {
		return serverError(c, "load room images", err)
	}
	return c.JSON(http.StatusOK, roomResp{Room: room, Images: images})
}

// Create inserts a listing. Admin only. Image URLs point at media already
// uploaded to external storage.
func (h *RoomHandler) Create(c echo.Context) error {
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Title == "" || req.RentPrice <= 0 || req.Area <= 0 || req.City == "" || req.District == "" || req.Street == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "title, rentPrice, area, city, district and street are required",
		})
	}
	status := req.Status
	if status == "" {
		status = model.RoomStatusInactive
	}
	if !validRoomStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	room := model.Room{
		Title:            req.Title,
		Description:      req.Description,
		RentPrice:        req.RentPrice,
		Area:             req.Area,
		City:             req.City,
		District:         req.District,
		Street:           req.Street,
		Link360:          req.Link360,
		FurnitureDetails: req.FurnitureDetails,
		ElectricityCost:  req.ElectricityCost,
		WaterCost:        req.WaterCost,
		WifiCost:         req.WifiCost,
		ParkingCost:      req.ParkingCost,
		Status:           status,
	}
	if err := h.Rooms.Create(ctx, &room); err != nil {
		return serverError(c, "create room", err)
	}
	images := make([]model.RoomImage, 0, len(req.ImageURLs))
	for _, u := range req.ImageURLs {
		img := model.RoomImage{RoomID: room.ID, URL: u}
		if err := h.Rooms.AddImage(ctx, &img); err != nil {
			return serverError(c, "attach room image", err)
		}
		images = append(images, img)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "room created",
		"room":    roomResp{Room: room, Images: images},
	})
}

// Update edits a listing with partial semantics: absent/zero fields keep
// their current value. Admin only.
func (h *RoomHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return serverError(c, "load room", err)
	}

	if req.Title != "" {
		room.Title = req.Title
	}
	if req.Description != "" {
		room.Description = req.Description
	}
	if req.RentPrice > 0 {
		room.RentPrice = req.RentPrice
	}
	if req.Area > 0 {
		room.Area = req.Area
	}
	if req.City != "" {
		room.City = req.City
	}
	if req.District != "" {
		room.District = req.District
	}
	if req.Street != "" {
		room.Street = req.Street
	}
	if req.Link360 != "" {
		room.Link360 = req.Link360
	}
	if req.FurnitureDetails != "" {
		room.FurnitureDetails = req.FurnitureDetails
	}
	if req.ElectricityCost > 0 {
		room.ElectricityCost = req.ElectricityCost
	}
	if req.WaterCost > 0 {
		room.WaterCost = req.WaterCost
	}
	if req.WifiCost > 0 {
		room.WifiCost = req.WifiCost
	}
	if req.ParkingCost > 0 {
		room.ParkingCost = req.ParkingCost
	}
	if req.Status != "" {
		if !validRoomStatus(req.Status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		room.Status = req.Status
	}

	if err := h.Rooms.Update(ctx, &room); err != nil {
		return serverError(c, "update room", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "room updated", "room": room})
}

// Delete removes a listing and its images. Admin only.
func (h *RoomHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Rooms.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return serverError(c, "delete room", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "room deleted"})
}

func validRoomStatus(s string) bool {
	switch strings.ToLower(s) {
	case model.RoomStatusActive, model.RoomStatusInactive, model.RoomStatusRented:
		return true
	}
	return false
}
