package qr

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
	"golang.org/x/crypto/chacha20poly1305"

	"ticketing-api/internal/models"
	"ticketing-api/internal/utils"
)

// Receipt is the payload sealed into a purchase QR code.
type Receipt struct {
	Code        string          `json:"code"`
	PurchaseID  int64           `json:"purchase_id"`
	CustomerID  int64           `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Tickets     int             `json:"tickets"`
	IssuedAt    time.Time       `json:"issued_at"`
}

type QRGenerator struct {
	key []byte
}

func NewQRGenerator(secret string) *QRGenerator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &QRGenerator{key: hashed[:]}
}

// GenerateReceiptQR returns a PNG QR code holding the sealed receipt of p.
func (q *QRGenerator) GenerateReceiptQR(p *models.Purchase) ([]byte, error) {
	receipt := Receipt{
		Code:        utils.ReceiptCode(p.PurchaseID, p.PurchaseDate),
		PurchaseID:  p.PurchaseID,
		CustomerID:  p.CustomerID,
		TotalAmount: p.TotalAmount,
		IssuedAt:    p.PurchaseDate.UTC(),
	}
	for _, item := range p.Items {
		receipt.Tickets += item.Quantity
	}

	sealed, err := q.Seal(receipt)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(sealed, qrcode.Medium, 256)
	if err != nil {
		return nil, errors.Wrap(err, "encode qr code")
	}
	return png, nil
}

// Seal encrypts and authenticates the receipt as URL-safe base64.
func (q *QRGenerator) Seal(receipt Receipt) (string, error) {
	data, err := json.Marshal(receipt)
	if err != nil {
		return "", errors.Wrap(err, "marshal receipt")
	}

	aead, err := chacha20poly1305.NewX(q.key)
	if err != nil {
		return "", errors.Wrap(err, "init cipher")
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(data)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", errors.Wrap(err, "generate nonce")
	}

	return base64.URLEncoding.EncodeToString(aead.Seal(nonce, nonce, data, nil)), nil
}

// Open reverses Seal, rejecting tampered or foreign payloads.
func (q *QRGenerator) Open(sealed string) (*Receipt, error) {
	raw, err := base64.URLEncoding.DecodeString(sealed)
	if err != nil {
		return nil, models.NewValidationError("Invalid QR payload")
	}

	aead, err := chacha20poly1305.NewX(q.key)
	if err != nil {
		return nil, errors.Wrap(err, "init cipher")
	}
	if len(raw) < aead.NonceSize() {
		return nil, models.NewValidationError("Invalid QR payload")
	}

	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, models.NewValidationError("Invalid QR payload")
	}

	var receipt Receipt
	if err := json.Unmarshal(plain, &receipt); err != nil {
		return nil, errors.Wrap(err, "unmarshal receipt")
	}
	return &receipt, nil
}
