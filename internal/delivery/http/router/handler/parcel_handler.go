// Package handler contains the echo HTTP handlers. Handlers bind and
// validate requests, call the use case layer and shape the response; all
// business rules live below them.
package handler

import (
	"net/http"
	"time"

	"lockerbox/internal/delivery/http/middleware"
	"lockerbox/internal/delivery/http/response"
	"lockerbox/internal/domain/entity"
	"lockerbox/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ParcelHandler handles the parcel-facing endpoints: deposit, pickup and the
// self-service operations in between.
type ParcelHandler struct {
	parcelUC usecase.ParcelUsecase
}

// NewParcelHandler is the constructor for ParcelHandler.
func NewParcelHandler(parcelUC usecase.ParcelUsecase) *ParcelHandler {
	return &ParcelHandler{parcelUC: parcelUC}
}

type depositRequest struct {
	RecipientEmail string `json:"recipient_email" validate:"required,email"`
	Size           string `json:"size" validate:"required,oneof=small medium large"`
}

type depositResponse struct {
	ParcelID  uuid.UUID `json:"parcel_id"`
	LockerID  uuid.UUID `json:"locker_id"`
	Location  string    `json:"location"`
	Pin       string    `json:"pin"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Deposit reserves a locker and creates a parcel. The response carries the
// plaintext PIN; this is the only time it is ever visible.
func (h *ParcelHandler) Deposit(c echo.Context) error {
	var req depositRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_REQUEST", "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.parcelUC.Deposit(c.Request().Context(), &usecase.DepositInput{
		RecipientEmail: req.RecipientEmail,
		Size:           entity.LockerSize(req.Size),
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusCreated, depositResponse{
		ParcelID:  result.Parcel.ID,
		LockerID:  result.Locker.ID,
		Location:  result.Locker.Location,
		Pin:       result.Pin,
		ExpiresAt: result.Parcel.ExpiresAt,
	}, "Parcel deposited")
}

type pickupRequest struct {
	ParcelID string `json:"parcel_id" validate:"required,uuid"`
	Pin      string `json:"pin" validate:"required"`
}

type pickupResponse struct {
	ParcelID uuid.UUID `json:"parcel_id"`
	LockerID uuid.UUID `json:"locker_id"`
	Status   string    `json:"status"`
}

// Pickup verifies the PIN and opens the locker. Every rejection cause maps
// to the same response so the endpoint cannot be used as a PIN oracle.
func (h *ParcelHandler) Pickup(c echo.Context) error {
	var req pickupRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_REQUEST", "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	parcelID, err := uuid.Parse(req.ParcelID)
	if err != nil {
		return response.BadRequest(c, "INVALID_PARCEL_ID", "parcel_id is not a valid UUID")
	}

	result, err := h.parcelUC.Pickup(c.Request().Context(), parcelID, req.Pin)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, pickupResponse{
		ParcelID: result.Parcel.ID,
		LockerID: result.LockerID,
		Status:   string(result.Parcel.Status),
	}, "Pickup completed")
}

type reissueResponse struct {
	ParcelID  uuid.UUID `json:"parcel_id"`
	Pin       string    `json:"pin"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ReissuePin replaces the PIN of a deposited parcel.
func (h *ParcelHandler) ReissuePin(c echo.Context) error {
	parcelID, err := parseParcelID(c)
	if err != nil {
		return err
	}

	result, err := h.parcelUC.ReissuePin(c.Request().Context(), parcelID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, reissueResponse{
		ParcelID:  result.Parcel.ID,
		Pin:       result.Pin,
		ExpiresAt: result.Parcel.ExpiresAt,
	}, "PIN reissued")
}

// Retract withdraws a still-deposited parcel on behalf of the sender.
func (h *ParcelHandler) Retract(c echo.Context) error {
	parcelID, err := parseParcelID(c)
	if err != nil {
		return err
	}

	parcel, err := h.parcelUC.Retract(c.Request().Context(), parcelID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, parcelStatusResponse(parcel), "Parcel retracted")
}

// DisputePickup flags a parcel whose locker content is contested.
func (h *ParcelHandler) DisputePickup(c echo.Context) error {
	parcelID, err := parseParcelID(c)
	if err != nil {
		return err
	}

	parcel, err := h.parcelUC.DisputePickup(c.Request().Context(), parcelID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, parcelStatusResponse(parcel), "Pickup disputed, locker quarantined")
}

// ReportMissing marks a parcel as missing and takes its locker out of
// service. On the admin route the authenticated username is recorded as the
// reporting actor; on the public route the actor stays empty (recipient).
func (h *ParcelHandler) ReportMissing(c echo.Context) error {
	parcelID, err := parseParcelID(c)
	if err != nil {
		return err
	}

	actor, _ := c.Get(middleware.KeyUsername).(string)

	parcel, err := h.parcelUC.ReportMissing(c.Request().Context(), parcelID, actor)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, parcelStatusResponse(parcel), "Parcel reported missing")
}

// PickupQR streams a PNG QR code linking to the pickup page.
func (h *ParcelHandler) PickupQR(c echo.Context) error {
	parcelID, err := parseParcelID(c)
	if err != nil {
		return err
	}

	png, err := h.parcelUC.GeneratePickupQR(c.Request().Context(), parcelID)
	if err != nil {
		return err
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// HealthCheck reports service liveness.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

func parseParcelID(c echo.Context) (uuid.UUID, error) {
	parcelID, err := uuid.Parse(c.Param("parcel_id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "parcel_id is not a valid UUID")
	}

	return parcelID, nil
}

func parcelStatusResponse(parcel *entity.Parcel) map[string]any {
	return map[string]any{
		"parcel_id": parcel.ID,
		"status":    string(parcel.Status),
	}
}
