package picker

import (
	"testing"

	"github.com/diewo77/customer-portal/internal/models"
)

func TestNewMapView(t *testing.T) {
	def := NewMapView("", "")
	if def.Lat != DefaultLat || def.Lon != DefaultLon || def.Zoom != DefaultZoom || def.HasMarker {
		t.Fatalf("unexpected default view %+v", def)
	}
	partial := NewMapView("12.9", "")
	if partial.Zoom != DefaultZoom {
		t.Fatalf("partial coordinates should keep the default view, got %+v", partial)
	}
	focus := NewMapView("12.9", "77.6")
	if focus.Lat != 12.9 || focus.Lon != 77.6 || focus.Zoom != FocusZoom || !focus.HasMarker {
		t.Fatalf("unexpected focused view %+v", focus)
	}
	if focus.LatText() != "12.9" || focus.LonText() != "77.6" {
		t.Fatalf("unexpected text %s %s", focus.LatText(), focus.LonText())
	}
}

func TestClick(t *testing.T) {
	lat, lon, v := Click("12.9", " 77.6 ")
	if !v.Empty() || lat != "12.9" || lon != "77.6" {
		t.Fatalf("unexpected click result %q %q %v", lat, lon, v)
	}
	if _, _, v := Click("120", "0"); v.Empty() {
		t.Fatalf("expected latitude out of range")
	}
}

func TestPreview(t *testing.T) {
	if got := Preview(nil, ""); got != "" {
		t.Fatalf("expected placeholder, got %q", got)
	}
	if got := Preview(nil, "QUJD"); got != "data:image/jpeg;base64,QUJD" {
		t.Fatalf("unexpected base64 preview %q", got)
	}
	if got := Preview(nil, "data:image/png;base64,QUJD"); got != "data:image/png;base64,QUJD" {
		t.Fatalf("data URL should be kept, got %q", got)
	}
	file := &models.Photo{ContentType: "image/png", Data: []byte("ABC")}
	if got := Preview(file, "ZZZZ"); got != "data:image/png;base64,QUJD" {
		t.Fatalf("uploaded file should win, got %q", got)
	}
}

func TestDecodeStored(t *testing.T) {
	p, err := DecodeStored("data:image/png;base64,QUJD")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(p.Data) != "ABC" || p.ContentType != "image/png" || p.Filename != "photo.png" {
		t.Fatalf("unexpected photo %+v", p)
	}
	p, err = DecodeStored("QUJD")
	if err != nil || p.ContentType != "image/jpeg" {
		t.Fatalf("unexpected photo %+v err=%v", p, err)
	}
	if p, err := DecodeStored(""); p != nil || err != nil {
		t.Fatalf("expected nil photo for empty input")
	}
}
