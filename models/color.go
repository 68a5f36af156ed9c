package models

import "encoding/json"

// ColorValue accepts a variant color sent either as a plain string ("Red")
// or in the legacy object shape ({"name": "Red"}) and normalizes both to
// the string form. Matching against variants stays case-sensitive.
type ColorValue string

func (c *ColorValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = ColorValue(s)
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*c = ColorValue(obj.Name)
	return nil
}

func (c ColorValue) String() string { return string(c) }
