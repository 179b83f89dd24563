package model

import "time"

// ResumeRequest records a visitor asking for the resume.
type ResumeRequest struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"type:varchar(120);not null"`
	Email     string    `json:"email" gorm:"type:varchar(255);not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for ResumeRequest.
func (ResumeRequest) TableName() string {
	return "resume_requests"
}
