package handler

import (
	"context"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hoanvu/room-rental/internal/model"
	"github.com/hoanvu/room-rental/internal/queue"
	"github.com/hoanvu/room-rental/internal/repository"
	queue_publisher "github.com/hoanvu/room-rental/internal/service"
)

// BookingHandler serves tenant booking requests and the admin booking
// management surface.
type BookingHandler struct {
	Bookings *repository.BookingRepo
	Rooms    *repository.RoomRepo
}

func NewBookingHandler(b *repository.BookingRepo, r *repository.RoomRepo) *BookingHandler {
	return &BookingHandler{Bookings: b, Rooms: r}
}

type createBookingReq struct {
	RoomID uint64 `json:"roomId"`
}

type updateBookingReq struct {
	Status string `json:"status"`
}

// Create requests a booking for a room. The agreed amount is copied from
// the room's current rent price. A booking.created event is published
// best-effort; broker trouble never fails the request.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, ok := c.Get("user_id").(uint64)
	if !ok || uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil || req.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "roomId is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	room, err := h.Rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return serverError(c, "load room", err)
	}

	booking := model.Booking{
		UserID:      uid,
		RoomID:      room.ID,
		TotalAmount: room.RentPrice,
		Status:      model.BookingStatusPending,
	}
	if err := h.Bookings.Create(ctx, &booking); err != nil {
		return serverError(c, "create booking", err)
	}

	if err := queue_publisher.PublishBookingCreated(ctx, queue.BookingCreatedEvent{
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		RoomID:      room.ID,
		RoomTitle:   room.Title,
		City:        room.City,
		District:    room.District,
		TotalAmount: booking.TotalAmount,
		Status:      booking.Status,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("booking %d: publish event failed: %v", booking.ID, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "booking created", "booking": booking})
}

// Mine returns the authenticated user's bookings.
func (h *BookingHandler) Mine(c echo.Context) error {
	uid, ok := c.Get("user_id").(uint64)
	if !ok || uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookings, err := h.Bookings.ListByUser(ctx, uid)
	if err != nil {
		return serverError(c, "list bookings", err)
	}
	return c.JSON(http.StatusOK, bookings)
}

// List returns a paginated, optionally status-filtered booking list.
// Admin only.
func (h *BookingHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	status := c.QueryParam("status")
	if status != "" && !validBookingStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be one of: pending, completed, cancelled"})
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookings, total, err := h.Bookings.List(ctx, status, page, limit)
	if err != nil {
		return serverError(c, "list bookings", err)
	}
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	if totalPages < 1 {
		totalPages = 1
	}
	return c.JSON(http.StatusOK, echo.Map{
		"bookings":   bookings,
		"page":       page,
		"totalPages": totalPages,
		"totalCount": total,
	})
}

// UpdateStatus transitions a booking. Completing a booking marks its room
// as rented. Admin only.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req updateBookingReq
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status is required"})
	}
	if !validBookingStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be one of: pending, completed, cancelled"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	booking, err := h.Bookings.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return serverError(c, "update booking", err)
	}

	if booking.Status == model.BookingStatusCompleted {
		if err := h.Rooms.UpdateStatus(ctx, booking.RoomID, model.RoomStatusRented); err != nil {
			log.Printf("booking %d: mark room %d rented failed: %v", booking.ID, booking.RoomID, err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "booking status updated", "booking": booking})
}

func validBookingStatus(s string) bool {
	switch s {
	case model.BookingStatusPending, model.BookingStatusCompleted, model.BookingStatusCancelled:
		return true
	}
	return false
}
