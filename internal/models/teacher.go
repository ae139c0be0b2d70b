package models

// Teacher is an instructor who leads groups and assigns tasks.
type Teacher struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Status  string `json:"status"`
	Extras  Extras `json:"-"`
}

// MarshalJSON implements json.Marshaler.
func (t Teacher) MarshalJSON() ([]byte, error) {
	type plain Teacher
	return encodeRecord(plain(t), t.Extras)
}

// RecordID implements Record.
func (t Teacher) RecordID() ID { return t.ID }

// UnmarshalJSON implements json.Unmarshaler.
func (t *Teacher) UnmarshalJSON(data []byte) error {
	type plain Teacher
	var p plain
	extras, err := decodeRecord(data, &p)
	if err != nil {
		return err
	}
	*t = Teacher(p)
	t.Extras = extras
	return nil
}
