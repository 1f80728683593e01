package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hoanvu/room-rental/internal/auth"
	"github.com/hoanvu/room-rental/internal/model"
	"github.com/hoanvu/room-rental/internal/repository"
)

// UserHandler exposes the profile endpoint for the current user and the
// admin-only user management surface.
type UserHandler struct {
	Users *repository.UserRepo
}

func NewUserHandler(u *repository.UserRepo) *UserHandler {
	return &UserHandler{Users: u}
}

type updateProfileReq struct {
	DisplayName *string `json:"displayName"`
	Phone       *string `json:"phone"`
	AvatarURL   *string `json:"avatarUrl"`
}

// UpdateProfile lets the authenticated user change name, phone and avatar.
// Pointer fields distinguish "not sent" from "set to empty".
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	uid, ok := c.Get("user_id").(uint64)
	if !ok || uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return serverError(c, "load user", err)
	}
	if req.DisplayName != nil {
		u.DisplayName = *req.DisplayName
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.AvatarURL != nil {
		u.AvatarURL = *req.AvatarURL
	}
	if err := h.Users.Update(ctx, &u); err != nil {
		if errors.Is(err, auth.ErrDuplicateKey) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "phone already in use"})
		}
		return serverError(c, "update profile", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "profile updated", "user": publicUser(u)})
}

// List returns every user. Admin only.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return serverError(c, "list users", err)
	}
	out := make([]userPart, 0, len(users))
	for _, u := range users {
		out = append(out, publicUser(u))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one user by id. A user may fetch only their own record;
// admins may fetch anyone.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	uid, _ := c.Get("user_id").(uint64)
	role, _ := c.Get("role").(string)
	if role != model.RoleAdmin && uid != id {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you can only view your own profile"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return serverError(c, "get user", err)
	}
	return c.JSON(http.StatusOK, publicUser(u))
}

// Delete removes a user. Admin only; this is the one deletion path, the
// auth core itself never deletes accounts.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return serverError(c, "delete user", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}
