// Package picker holds the view models of the form's map and photo widgets.
package picker

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/customer-portal/internal/models"
	"github.com/diewo77/customer-portal/validation"
)

const (
	// DefaultLat and DefaultLon center the map when no coordinates are known.
	DefaultLat  = 20.5937
	DefaultLon  = 78.9629
	DefaultZoom = 5
	// FocusZoom is used whenever the map centers on a known point.
	FocusZoom = 13
)

// MapView is what the page script needs to draw the map.
type MapView struct {
	Lat       float64
	Lon       float64
	Zoom      int
	HasMarker bool
}

// LatText and LonText format the center for HTML data attributes.
func (m MapView) LatText() string { return strconv.FormatFloat(m.Lat, 'f', -1, 64) }
func (m MapView) LonText() string { return strconv.FormatFloat(m.Lon, 'f', -1, 64) }

// NewMapView centers on lat/lon when both parse, otherwise on the default wide view.
func NewMapView(lat, lon string) MapView {
	a := &models.Address{Latitude: lat, Longitude: lon}
	if la, lo, ok := a.Coordinates(); ok {
		return MapView{Lat: la, Lon: lo, Zoom: FocusZoom, HasMarker: true}
	}
	return MapView{Lat: DefaultLat, Lon: DefaultLon, Zoom: DefaultZoom}
}

// Click validates a point reported by a map click and returns it as text.
// No network call is involved.
func Click(lat, lon string) (string, string, validation.Violations) {
	v := make(validation.Violations)
	validation.Latitude("latitude", lat, v)
	validation.Longitude("longitude", lon, v)
	if !v.Empty() {
		return "", "", v
	}
	return strings.TrimSpace(lat), strings.TrimSpace(lon), v
}

// NoImage is the placeholder shown when there is nothing to preview.
const NoImage = "No Image"

// Preview returns the src of the photo preview, "" when the placeholder applies.
// An uploaded file wins over the stored base64 image.
func Preview(file *models.Photo, stored string) string {
	if file != nil && len(file.Data) > 0 {
		ct := file.ContentType
		if ct == "" {
			ct = http.DetectContentType(file.Data)
		}
		return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(file.Data)
	}
	return DataURL(stored)
}

// DataURL turns a base64 image into a data URL, leaving existing data URLs alone.
func DataURL(b64 string) string {
	if b64 == "" {
		return ""
	}
	if strings.HasPrefix(b64, "data:image") {
		return b64
	}
	return "data:image/jpeg;base64," + b64
}

// DecodeStored converts a stored base64 image (or data URL) back to a photo so
// it can be resubmitted as a file part.
func DecodeStored(stored string) (*models.Photo, error) {
	if stored == "" {
		return nil, nil
	}
	ct := "image/jpeg"
	payload := stored
	if strings.HasPrefix(stored, "data:") {
		meta, data, found := strings.Cut(strings.TrimPrefix(stored, "data:"), ",")
		if found {
			payload = data
			if m, _, ok := strings.Cut(meta, ";"); ok && m != "" {
				ct = m
			}
		}
	}
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, err
	}
	return &models.Photo{Filename: "photo" + extension(ct), ContentType: ct, Data: b}, nil
}

func extension(ct string) string {
	switch ct {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
