package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Customer is the canonical shape of a customer record as consumed by the portal.
// The API client normalizes every backend payload into this shape on receipt.
type Customer struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	MobileNo string `json:"mobileno"`
	// ImageData is the embedded photo, base64 encoded as sent by the backend.
	ImageData string   `json:"image_data,omitempty"`
	Address   *Address `json:"address,omitempty"`
}

// Address holds the postal description and coordinates of a customer.
// Coordinates stay textual: the backend serializes them as strings and the
// form edits them as text.
type Address struct {
	Text      string `json:"address_text"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// Empty reports whether no address field is set.
func (a *Address) Empty() bool {
	return a == nil || (a.Text == "" && a.Latitude == "" && a.Longitude == "")
}

// Coordinates parses latitude and longitude. ok is false when either is missing
// or not a number.
func (a *Address) Coordinates() (lat, lon float64, ok bool) {
	if a == nil {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(a.Latitude), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(a.Longitude), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// HasImage reports whether the customer carries a photo.
func (c *Customer) HasImage() bool { return c.ImageData != "" }

// Location is the rendered form of a customer's address for the list view.
type Location struct {
	// Empty means nothing to show: the list renders a dash.
	Empty   bool
	Label   string
	Tooltip string
	MapURL  string
}

// Location builds the list-view representation of the customer's address.
func (c *Customer) Location() Location {
	a := c.Address
	if a.Empty() {
		return Location{Empty: true}
	}
	coords := fmt.Sprintf("(%s, %s)", a.Latitude, a.Longitude)
	label := coords
	if a.Text != "" {
		label = a.Text + " " + coords
	}
	var parts []string
	for _, p := range []string{a.Text, a.Latitude, a.Longitude} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return Location{
		Label:   label,
		Tooltip: strings.Join(parts, ", "),
		MapURL:  fmt.Sprintf("https://www.google.com/maps?q=%s,%s", a.Latitude, a.Longitude),
	}
}
