package models

import "time"

type OTPRequest struct {
	Mobile string `json:"mobile" validate:"required"`
}

type OTPVerify struct {
	Mobile string `json:"mobile" validate:"required"`
	OTP    string `json:"otp" validate:"required,len=6,numeric"`
}

// OTPIssued is what the issuance collaborator returns. Code is only set when
// the server runs with code echo enabled.
type OTPIssued struct {
	Message   string    `json:"message"`
	Code      string    `json:"otp,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// OTPChallenge is the stored side of an issued code.
type OTPChallenge struct {
	Mobile    string    `json:"mobile"`
	Code      string    `json:"code"`
	Attempts  int       `json:"attempts"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
