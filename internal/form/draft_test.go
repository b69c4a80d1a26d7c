package form

import (
	"errors"
	"net/url"
	"testing"

	"github.com/diewo77/customer-portal/internal/models"
)

func TestNewEdit_Seeding(t *testing.T) {
	c := models.Customer{
		ID: 7, Name: "Bob", Email: "b@x.com", MobileNo: "123", ImageData: "QUJD",
		Address: &models.Address{Text: "Baker St", Latitude: "51.5", Longitude: "-0.15"},
	}
	d := NewEdit(c)
	if d.Mode != ModeEdit || d.CustomerID != 7 || d.Name != "Bob" || d.AddressText != "Baker St" || d.Latitude != "51.5" {
		t.Fatalf("unexpected draft %+v", d)
	}
	if d.PreviewSrc() != "data:image/jpeg;base64,QUJD" {
		t.Fatalf("unexpected preview %q", d.PreviewSrc())
	}
	if d.Title() != "Edit Customer" {
		t.Fatalf("unexpected title %q", d.Title())
	}

	bare := NewEdit(models.Customer{ID: 8, Name: "NoAddr"})
	if bare.AddressText != "" || bare.Latitude != "" || bare.Longitude != "" || bare.PreviewSrc() != "" {
		t.Fatalf("expected blank address and photo, got %+v", bare)
	}
}

func TestNewCreate(t *testing.T) {
	d := NewCreate()
	if d.Mode != ModeCreate || d.Title() != "Add New Customer" || d.Name != "" {
		t.Fatalf("unexpected create draft %+v", d)
	}
}

func TestApply_OnlyTouchesPresentFields(t *testing.T) {
	d := NewEdit(models.Customer{Name: "Bob", Email: "b@x.com"})
	d.Apply(url.Values{"name": {"Robert"}, "unknown": {"x"}})
	if d.Name != "Robert" || d.Email != "b@x.com" {
		t.Fatalf("unexpected draft %+v", d)
	}
	d.Apply(url.Values{"latitude": {"1"}, "longitude": {"2"}, "address_text": {""}})
	if d.Latitude != "1" || d.Longitude != "2" || d.AddressText != "" || d.Name != "Robert" {
		t.Fatalf("unexpected draft %+v", d)
	}
}

func TestPickLocation(t *testing.T) {
	d := NewCreate()
	if err := d.PickLocation("12.9", "77.6"); err != nil {
		t.Fatalf("pick: %v", err)
	}
	if d.Latitude != "12.9" || d.Longitude != "77.6" {
		t.Fatalf("unexpected coordinates %s,%s", d.Latitude, d.Longitude)
	}
	if err := d.PickLocation("500", "0"); err == nil {
		t.Fatalf("expected out of range error")
	}
	if d.Latitude != "12.9" {
		t.Fatalf("rejected point must not change the draft")
	}
	if m := d.Map(); m.Zoom != 13 || !m.HasMarker {
		t.Fatalf("map should focus on picked point, got %+v", m)
	}
}

func TestQueries(t *testing.T) {
	d := NewCreate()
	if _, err := d.GeocodeQuery(); !errors.Is(err, ErrEmptyAddress) {
		t.Fatalf("expected ErrEmptyAddress, got %v", err)
	}
	d.AddressText = "  221B Baker Street "
	if q, err := d.GeocodeQuery(); err != nil || q != "221B Baker Street" {
		t.Fatalf("unexpected query %q %v", q, err)
	}
	d.Latitude = "51.5"
	if _, _, err := d.ReverseQuery(); !errors.Is(err, ErrNoCoordinates) {
		t.Fatalf("expected ErrNoCoordinates, got %v", err)
	}
	d.Longitude = "-0.15"
	if lat, lon, err := d.ReverseQuery(); err != nil || lat != "51.5" || lon != "-0.15" {
		t.Fatalf("unexpected reverse query %s %s %v", lat, lon, err)
	}
}

func TestInput_Photo(t *testing.T) {
	d := NewEdit(models.Customer{ID: 1, Name: "A", ImageData: "QUJD"})
	in, err := d.Input()
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	if in.Image == nil || string(in.Image.Data) != "ABC" {
		t.Fatalf("stored image should be sent as file data, got %+v", in.Image)
	}
	d.SetUpload(&models.Photo{Filename: "new.png", ContentType: "image/png", Data: []byte("NEW")})
	in, _ = d.Input()
	if in.Image.Filename != "new.png" {
		t.Fatalf("upload should replace stored image, got %+v", in.Image)
	}
	empty, _ := NewCreate().Input()
	if empty.Image != nil {
		t.Fatalf("expected no image")
	}
}
