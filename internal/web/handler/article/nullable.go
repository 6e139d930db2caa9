package article

import "encoding/json"

// Nullable is a JSON string field that tells an absent key apart from an explicit null.
type Nullable struct {
	Set   bool
	Value *string
}

// UnmarshalJSON implements json.Unmarshaler. It is only called when the key is present.
func (n *Nullable) UnmarshalJSON(data []byte) error {
	n.Set = true

	if string(data) == "null" {
		n.Value = nil

		return nil
	}

	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err //nolint:wrapcheck
	}

	n.Value = &v

	return nil
}
