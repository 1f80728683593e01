package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hoanvu/room-rental/internal/repository"
)

// HomeHandler serves the landing-page aggregations.
type HomeHandler struct {
	Rooms *repository.RoomRepo
}

func NewHomeHandler(r *repository.RoomRepo) *HomeHandler {
	return &HomeHandler{Rooms: r}
}

// TopDistricts returns the districts with the most vacant rooms for a
// city (default Hà Nội), used by the landing page tiles.
func (h *HomeHandler) TopDistricts(c echo.Context) error {
	city := c.QueryParam("city")
	if city == "" {
		city = "Thành phố Hà Nội"
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Rooms.TopDistricts(ctx, city, limit)
	if err != nil {
		return serverError(c, "top districts", err)
	}
	return c.JSON(http.StatusOK, out)
}
