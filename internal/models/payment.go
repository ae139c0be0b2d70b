package models

// Payment defaults.
const (
	PaymentTypeCash = "cash"
	// TimestampLayout is how createdAt values are rendered.
	TimestampLayout = "2006-01-02 15:04:05"
	// DateLayout is the layout of paymentDate and dueDate.
	DateLayout = "2006-01-02"
)

// Payment is money received from a student. Recording it lowers the student's balance.
type Payment struct {
	ID          ID     `json:"id"`
	StudentID   ID     `json:"studentId" validate:"required"`
	Amount      Number `json:"amount"`
	PaymentDate string `json:"paymentDate"`
	PaymentType string `json:"paymentType"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
	Extras      Extras `json:"-"`
}

// MarshalJSON implements json.Marshaler.
func (p Payment) MarshalJSON() ([]byte, error) {
	type plain Payment
	return encodeRecord(plain(p), p.Extras)
}

// RecordID implements Record.
func (p Payment) RecordID() ID { return p.ID }

// UnmarshalJSON implements json.Unmarshaler.
func (p *Payment) UnmarshalJSON(data []byte) error {
	type plain Payment
	var v plain
	extras, err := decodeRecord(data, &v)
	if err != nil {
		return err
	}
	*p = Payment(v)
	p.Extras = extras
	return nil
}

// PaymentView adds the payer's display name.
type PaymentView struct {
	Payment     Payment
	StudentName string
}

// MarshalJSON implements json.Marshaler.
func (v PaymentView) MarshalJSON() ([]byte, error) {
	return overlay(v.Payment, map[string]interface{}{"studentName": v.StudentName})
}
