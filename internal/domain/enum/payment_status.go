package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentStatus represents how much of a stock lot or invoice has been paid
type PaymentStatus int

const (
	PaymentStatusPending   PaymentStatus = 0
	PaymentStatusPartial   PaymentStatus = 1
	PaymentStatusCompleted PaymentStatus = 2
)

func (s PaymentStatus) String() string {
	return [...]string{"pending", "partial", "completed"}[s]
}

func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PaymentStatus(i)
		return nil
	}
	switch str {
	case "pending":
		*s = PaymentStatusPending
	case "partial":
		*s = PaymentStatusPartial
	case "completed":
		*s = PaymentStatusCompleted
	}
	return nil
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PaymentStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PaymentStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = PaymentStatus(v)
	case int:
		*s = PaymentStatus(v)
	}
	return nil
}

// DerivePaymentStatus computes the status from the paid amount and the
// completion threshold. The progression is pending -> partial -> completed;
// a lot with any recorded payment never returns to pending.
func DerivePaymentStatus(amountPaid, threshold int64) PaymentStatus {
	switch {
	case amountPaid > 0 && amountPaid >= threshold:
		return PaymentStatusCompleted
	case amountPaid > 0:
		return PaymentStatusPartial
	default:
		return PaymentStatusPending
	}
}
