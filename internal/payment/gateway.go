// Package payment holds the payment gateway client and the fee arithmetic.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/yukikurage/campus-works/internal/utils"
)

// ErrSignatureMismatch is returned when a payment callback signature does
// not match the order and payment IDs.
var ErrSignatureMismatch = errors.New("payment signature mismatch")

// Gateway is the external payment provider.
type Gateway interface {
	// CreateOrder registers an order for amount and returns its gateway ID.
	CreateOrder(ctx context.Context, amount int64, reference string) (string, error)

	// VerifySignature checks a completion callback.
	VerifySignature(orderID, paymentID, signature string) error
}

// SimulatedGateway issues order IDs locally and verifies callbacks signed
// with the shared key secret, mirroring the provider's checkout contract.
type SimulatedGateway struct {
	secret []byte
}

// NewSimulatedGateway creates a gateway using secret as the key secret
func NewSimulatedGateway(secret string) *SimulatedGateway {
	return &SimulatedGateway{secret: []byte(secret)}
}

func (g *SimulatedGateway) CreateOrder(ctx context.Context, amount int64, reference string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if amount < 0 {
		return "", fmt.Errorf("invalid order amount %d", amount)
	}
	return utils.GenerateReference("order_")
}

// Sign returns hex(HMAC-SHA256(secret, orderID|paymentID)).
func (g *SimulatedGateway) Sign(orderID, paymentID string) string {
	return Sign(g.secret, orderID, paymentID)
}

func (g *SimulatedGateway) VerifySignature(orderID, paymentID, signature string) error {
	return VerifySignature(g.secret, orderID, paymentID, signature)
}

// Sign computes the callback signature for orderID and paymentID.
func Sign(secret []byte, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares in constant time.
func VerifySignature(secret []byte, orderID, paymentID, signature string) error {
	got, err := hex.DecodeString(signature)
	if err != nil {
		return ErrSignatureMismatch
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	if !hmac.Equal(got, mac.Sum(nil)) {
		return ErrSignatureMismatch
	}
	return nil
}
