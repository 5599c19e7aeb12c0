// Package courier holds courier profiles, verification, and the wallet.
package courier

import (
	"time"

	"github.com/shopspring/decimal"

	"jetfood/internal/types"
)

type VerificationStatus string

const (
	VerificationNotSubmitted VerificationStatus = "not_submitted"
	VerificationOnReview     VerificationStatus = "on_review"
	VerificationApproved     VerificationStatus = "approved"
	VerificationRejected     VerificationStatus = "rejected"
)

type Profile struct {
	ID           types.ID
	UserID       types.ID
	Verification VerificationStatus
	IsOnline     bool
	CardNumber   *string
	Balance      decimal.Decimal
}

type PayoutStatus string

const (
	PayoutPending  PayoutStatus = "pending"
	PayoutApproved PayoutStatus = "approved"
	PayoutRejected PayoutStatus = "rejected"
)

// PayoutRequest is immutable once created except for the status and
// processed-at transition performed by an administrator. The card number is
// snapshotted at request time.
type PayoutRequest struct {
	ID               types.ID
	CourierProfileID types.ID
	Amount           decimal.Decimal
	CardNumber       string
	Status           PayoutStatus
	CreatedAt        time.Time
	ProcessedAt      *time.Time
}
