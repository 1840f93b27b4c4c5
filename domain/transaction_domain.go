package domain

import (
	"errors"
	"time"
)

const (
	TransactionStarted   = "Started"
	TransactionFailed    = "Failed"
	TransactionCompleted = "Completed"

	// OTPValidity is how long an issued handoff code stays usable.
	OTPValidity = 1440 * time.Minute
)

var (
	MessageSuccessAcceptFood      = "food accepted, OTP sent to receiver"
	MessageSuccessRejectFood      = "transaction cancelled"
	MessageSuccessVerifyOtp       = "OTP verified, transaction completed"
	MessageSuccessGetTransactions = "transactions retrieved successfully"

	MessageFailedAcceptFood      = "accepting food failed, please try again later"
	MessageFailedRejectFood      = "cancelling food failed, please try again later"
	MessageFailedVerifyOtp       = "server error, please try again"
	MessageFailedGetTransactions = "fetching transactions failed, please try again later"

	ErrFoodNotAvailable    = errors.New("food not available or already accepted")
	ErrDonationNotFound    = errors.New("donation record not found")
	ErrTransactionNotFound = errors.New("transaction record not found")
	ErrNoTransactions      = errors.New("no transactions found for this user")
	ErrNotTransactionParty = errors.New("something went wrong! Try again later")
	ErrOtpExpired          = errors.New("OTP expired. Request a new one")
	ErrOtpInvalid          = errors.New("incorrect OTP. Try again")
	ErrOtpAttemptsExceeded = errors.New("too many OTP attempts, try again later")
	ErrInvalidOtpFormat    = errors.New("OTP must be a 6 digit code")
)

type (
	VerifyOtpRequest struct {
		OTP string `json:"otp" validate:"required,len=6,numeric"`
	}

	PartySummary struct {
		ID               string  `json:"id"`
		OrganizationName string  `json:"organization_name"`
		Phone            string  `json:"phone,omitempty"`
		Latitude         float64 `json:"latitude"`
		Longitude        float64 `json:"longitude"`
	}

	FoodSummary struct {
		ID         string    `json:"id"`
		FoodName   string    `json:"food_name"`
		Quantity   float64   `json:"quantity"`
		CookedTime time.Time `json:"cooked_time"`
		ExpiryTime time.Time `json:"expiry_time"`
	}

	TransactionResponse struct {
		ID                string        `json:"id"`
		Status            string        `json:"status"`
		Donor             *PartySummary `json:"donor,omitempty"`
		Receiver          *PartySummary `json:"receiver,omitempty"`
		Food              *FoodSummary  `json:"food,omitempty"`
		OTPExpiresAt      *time.Time    `json:"otp_expires_at,omitempty"`
		StartDateTime     time.Time     `json:"start_date_time"`
		FailedDateTime    *time.Time    `json:"failed_date_time,omitempty"`
		CompletedDateTime *time.Time    `json:"completed_date_time,omitempty"`
	}
)
