package request

import "time"

// ApplyPaymentRequest is the payload for recording a payment against a
// stock lot. Amount is in whole currency units.
type ApplyPaymentRequest struct {
	Amount    int64      `json:"amount" binding:"required,gt=0"`
	Method    string     `json:"method" binding:"required,oneof=cash bank_transfer mobile_money"`
	Date      *time.Time `json:"date"`
	Reference string     `json:"reference"`
	Notes     string     `json:"notes"`
}
