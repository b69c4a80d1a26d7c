// Package form models the customer form's draft: a transient, unsaved mirror
// of a customer's editable fields.
package form

import (
	"errors"
	"net/url"
	"strings"

	"github.com/diewo77/customer-portal/internal/models"
	"github.com/diewo77/customer-portal/internal/picker"
)

// Mode is fixed when the form is opened.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

var (
	ErrEmptyAddress  = errors.New("address text is empty")
	ErrNoCoordinates = errors.New("latitude or longitude missing")
)

// Draft is the in-progress state of the form view.
type Draft struct {
	Mode       Mode
	CustomerID uint

	Name        string
	Email       string
	MobileNo    string
	AddressText string
	Latitude    string
	Longitude   string

	// StoredImage is the customer's existing photo (base64), Upload a newly chosen file.
	StoredImage string
	Upload      *models.Photo
}

// NewCreate returns an empty draft in create mode.
func NewCreate() *Draft { return &Draft{Mode: ModeCreate} }

// NewEdit seeds a draft from c. Missing fields stay blank.
func NewEdit(c models.Customer) *Draft {
	d := &Draft{
		Mode:        ModeEdit,
		CustomerID:  c.ID,
		Name:        c.Name,
		Email:       c.Email,
		MobileNo:    c.MobileNo,
		StoredImage: c.ImageData,
	}
	if c.Address != nil {
		d.AddressText = c.Address.Text
		d.Latitude = c.Address.Latitude
		d.Longitude = c.Address.Longitude
	}
	return d
}

// Title is the heading of the form view.
func (d *Draft) Title() string {
	if d.Mode == ModeEdit {
		return "Edit Customer"
	}
	return "Add New Customer"
}

var fieldNames = []string{"name", "email", "mobileno", "address_text", "latitude", "longitude"}

// Apply copies submitted field values onto the draft. Only fields present in
// values are touched and each only updates its own draft field.
func (d *Draft) Apply(values url.Values) {
	for _, name := range fieldNames {
		if _, ok := values[name]; !ok {
			continue
		}
		v := values.Get(name)
		switch name {
		case "name":
			d.Name = v
		case "email":
			d.Email = v
		case "mobileno":
			d.MobileNo = v
		case "address_text":
			d.AddressText = v
		case "latitude":
			d.Latitude = v
		case "longitude":
			d.Longitude = v
		}
	}
}

// SetUpload records a newly chosen photo.
func (d *Draft) SetUpload(p *models.Photo) {
	if p != nil && len(p.Data) > 0 {
		d.Upload = p
	}
}

// PickLocation sets the coordinates to a point clicked on the map.
func (d *Draft) PickLocation(lat, lon string) error {
	la, lo, v := picker.Click(lat, lon)
	if !v.Empty() {
		return errors.New("invalid map point: " + v.First())
	}
	d.Latitude, d.Longitude = la, lo
	return nil
}

// GeocodeQuery is the trimmed address text to forward-geocode.
func (d *Draft) GeocodeQuery() (string, error) {
	q := strings.TrimSpace(d.AddressText)
	if q == "" {
		return "", ErrEmptyAddress
	}
	return q, nil
}

// ReverseQuery returns the coordinates to reverse-geocode.
func (d *Draft) ReverseQuery() (lat, lon string, err error) {
	lat, lon = strings.TrimSpace(d.Latitude), strings.TrimSpace(d.Longitude)
	if lat == "" || lon == "" {
		return "", "", ErrNoCoordinates
	}
	return lat, lon, nil
}

// Map is the map widget state for the current coordinates.
func (d *Draft) Map() picker.MapView { return picker.NewMapView(d.Latitude, d.Longitude) }

// PreviewSrc is the photo preview source, "" for the placeholder.
func (d *Draft) PreviewSrc() string { return picker.Preview(d.Upload, d.StoredImage) }

// Input builds the create/update payload. The photo, when present, is sent
// as raw file data.
func (d *Draft) Input() (models.CustomerInput, error) {
	in := models.CustomerInput{
		Name:        d.Name,
		Email:       d.Email,
		MobileNo:    d.MobileNo,
		AddressText: d.AddressText,
		Latitude:    d.Latitude,
		Longitude:   d.Longitude,
	}
	if d.Upload != nil {
		in.Image = d.Upload
		return in, nil
	}
	img, err := picker.DecodeStored(d.StoredImage)
	if err != nil {
		return in, err
	}
	in.Image = img
	return in, nil
}
