package client

import (
	"bytes"
	"encoding/json"

	"github.com/diewo77/customer-portal/internal/models"
)

// text decodes a JSON string or number into its textual form; null becomes "".
// Numbers keep their literal spelling so 51.5 stays "51.5".
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = text(n.String())
	return nil
}

type wireAddress struct {
	Text      text `json:"address_text"`
	Latitude  text `json:"latitude"`
	Longitude text `json:"longitude"`
}

// wireCustomer tolerates both the nested address object and flat fields.
type wireCustomer struct {
	ID        uint         `json:"id"`
	Name      text         `json:"name"`
	Email     text         `json:"email"`
	MobileNo  text         `json:"mobileno"`
	ImageData text         `json:"image_data"`
	Address   *wireAddress `json:"address"`

	AddressText text `json:"address_text"`
	Latitude    text `json:"latitude"`
	Longitude   text `json:"longitude"`
}

// normalize folds the nested/flat variants into the canonical shape: each
// address field prefers the nested value and falls back to the flat one.
func (w wireCustomer) normalize() models.Customer {
	c := models.Customer{
		ID:        w.ID,
		Name:      string(w.Name),
		Email:     string(w.Email),
		MobileNo:  string(w.MobileNo),
		ImageData: string(w.ImageData),
	}
	var nested wireAddress
	if w.Address != nil {
		nested = *w.Address
	}
	addr := &models.Address{
		Text:      string(firstNonEmpty(nested.Text, w.AddressText)),
		Latitude:  string(firstNonEmpty(nested.Latitude, w.Latitude)),
		Longitude: string(firstNonEmpty(nested.Longitude, w.Longitude)),
	}
	if !addr.Empty() {
		c.Address = addr
	}
	return c
}

func firstNonEmpty(vals ...text) text {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func normalizeAll(ws []wireCustomer) []models.Customer {
	out := make([]models.Customer, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.normalize())
	}
	return out
}

type geocodeResponse struct {
	Lat text `json:"lat"`
	Lon text `json:"lon"`
}

type reverseGeocodeResponse struct {
	AddressText text `json:"address_text"`
}

type messageResponse struct {
	Message string `json:"message"`
}
