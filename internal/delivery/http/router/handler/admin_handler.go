package handler

import (
	"net/http"
	"strconv"
	"time"

	"lockerbox/internal/delivery/http/middleware"
	"lockerbox/internal/delivery/http/response"
	"lockerbox/internal/domain/entity"
	"lockerbox/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AdminHandler handles operator authentication, locker management and audit
// trail review.
type AdminHandler struct {
	adminUC  usecase.AdminUsecase
	lockerUC usecase.LockerUsecase
	auditUC  usecase.AuditUsecase
}

// NewAdminHandler is the constructor for AdminHandler.
func NewAdminHandler(adminUC usecase.AdminUsecase, lockerUC usecase.LockerUsecase, auditUC usecase.AuditUsecase) *AdminHandler {
	return &AdminHandler{
		adminUC:  adminUC,
		lockerUC: lockerUC,
		auditUC:  auditUC,
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
}

// Login authenticates an operator and issues an access token.
func (h *AdminHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_REQUEST", "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.adminUC.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, loginResponse{
		AccessToken: result.Token,
		ExpiresAt:   result.ExpiresAt,
		Username:    result.Admin.Username,
		Role:        string(result.Admin.Role),
	}, "Login successful")
}

type lockerResponse struct {
	ID        uuid.UUID `json:"id"`
	Location  string    `json:"location"`
	Size      string    `json:"size"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toLockerResponse(locker *entity.Locker) lockerResponse {
	return lockerResponse{
		ID:        locker.ID,
		Location:  locker.Location,
		Size:      string(locker.Size),
		Status:    string(locker.Status),
		UpdatedAt: locker.UpdatedAt,
	}
}

// ListLockers returns the full locker bank overview.
func (h *AdminHandler) ListLockers(c echo.Context) error {
	lockers, err := h.lockerUC.ListLockers(c.Request().Context())
	if err != nil {
		return err
	}

	items := make([]lockerResponse, 0, len(lockers))
	for _, locker := range lockers {
		items = append(items, toLockerResponse(locker))
	}

	return response.Success(c, http.StatusOK, items, "")
}

type setLockerStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=free occupied out_of_service disputed_contents"`
}

// SetLockerStatus applies an admin status change to one locker. The acting
// username from the access token is recorded in the audit trail.
func (h *AdminHandler) SetLockerStatus(c echo.Context) error {
	lockerID, err := uuid.Parse(c.Param("locker_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "locker_id is not a valid UUID")
	}

	var req setLockerStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_REQUEST", "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	actor, _ := c.Get(middleware.KeyUsername).(string)

	locker, err := h.lockerUC.SetStatus(c.Request().Context(), lockerID, entity.LockerStatus(req.Status), actor)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toLockerResponse(locker), "Locker status updated")
}

type auditEventResponse struct {
	ID         uuid.UUID      `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	ActionCode string         `json:"action_code"`
	Category   string         `json:"category"`
	Severity   string         `json:"severity"`
	Details    map[string]any `json:"details,omitempty"`
}

// ListAuditLogs returns recent audit events, newest first. Supports optional
// limit and category query parameters.
func (h *AdminHandler) ListAuditLogs(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
		}
		limit = parsed
	}

	category := entity.AuditCategory(c.QueryParam("category"))

	events, err := h.auditUC.ListEvents(c.Request().Context(), limit, category)
	if err != nil {
		return err
	}

	items := make([]auditEventResponse, 0, len(events))
	for _, event := range events {
		items = append(items, auditEventResponse{
			ID:         event.ID,
			Timestamp:  event.Timestamp,
			ActionCode: event.ActionCode,
			Category:   string(event.Category),
			Severity:   string(event.Severity),
			Details:    event.Details,
		})
	}

	return response.Success(c, http.StatusOK, items, "")
}
