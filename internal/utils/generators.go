package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReceiptCode is the opaque reference printed in a purchase's QR code.
func ReceiptCode(purchaseID int64, purchasedAt time.Time) string {
	return fmt.Sprintf("PUR-%d-%s", purchaseID, purchasedAt.UTC().Format("20060102150405"))
}

// GenerateUUID creates a random UUID v4
func GenerateUUID() string {
	return uuid.NewString()
}
