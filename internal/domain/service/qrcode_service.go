package service

import "github.com/google/uuid"

// QRCodeService renders parcel pickup QR codes. The code encodes the pickup
// page URL with the parcel ID only, never the PIN.
type QRCodeService interface {
	GeneratePickupQR(parcelID uuid.UUID) ([]byte, error)
}
