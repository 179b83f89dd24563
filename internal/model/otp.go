package model

import "time"

// OTPCode is a pending one-time passcode. Email is the primary key so
// requesting a new code replaces any outstanding one.
type OTPCode struct {
	Email     string    `json:"email" gorm:"primaryKey;type:varchar(255)"`
	Code      string    `json:"code" gorm:"type:varchar(6);not null"`
	Name      string    `json:"name" gorm:"type:varchar(100)"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for OTPCode.
func (OTPCode) TableName() string {
	return "otp_codes"
}

// Expired reports whether the code is past its expiry at the given time.
func (o *OTPCode) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
