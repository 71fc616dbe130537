package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IdempotencyKey stores processed requests so that caller-level retries of
// a whole operation (e.g. a payment that failed mid-way) replay the
// original response instead of re-applying the effect.
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	Key          string    `gorm:"uniqueIndex:idx_idem_client_key;size:255;not null"` // The idempotency key from client
	ClientID     string    `gorm:"uniqueIndex:idx_idem_client_key;size:64;not null"`  // Caller identity (client IP)
	Endpoint     string    `gorm:"size:255;not null"`                                 // e.g. "POST /stocks/:id/payments"
	RequestHash  string    `gorm:"size:64"`                                           // SHA256 hash of request body (optional)
	ResponseCode int       `gorm:"not null"`                                          // HTTP status code of original response
	ResponseBody string    `gorm:"type:text"`                                         // JSON response body (cached)
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"` // Keys expire after 24 hours
}

// BeforeCreate generates a UUID before creating a new idempotency key
func (i *IdempotencyKey) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}
