package backend

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/diewo77/customer-portal/internal/db"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup has no result.
var ErrNotFound = errors.New("not found")

// ReverseRadiusKm bounds how far a reverse lookup may snap to a place.
const ReverseRadiusKm = 50.0

const earthRadiusKm = 6371.0

// Gazetteer geocodes against the places table.
type Gazetteer struct {
	db *gorm.DB
}

func NewGazetteer(d *gorm.DB) *Gazetteer { return &Gazetteer{db: d} }

// Geocode returns the first place whose name contains address, ignoring case.
func (g *Gazetteer) Geocode(ctx context.Context, address string) (db.Place, error) {
	var p db.Place
	q := "%" + strings.ToLower(strings.TrimSpace(address)) + "%"
	err := g.db.WithContext(ctx).Where("LOWER(name) LIKE ?", q).Order("id").First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, ErrNotFound
	}
	return p, err
}

// Reverse returns the nearest place within ReverseRadiusKm.
func (g *Gazetteer) Reverse(ctx context.Context, lat, lon float64) (db.Place, error) {
	var places []db.Place
	if err := g.db.WithContext(ctx).Find(&places).Error; err != nil {
		return db.Place{}, err
	}
	best, bestDist := -1, math.MaxFloat64
	for i, p := range places {
		if d := distanceKm(lat, lon, p.Lat, p.Lon); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 || bestDist > ReverseRadiusKm {
		return db.Place{}, ErrNotFound
	}
	return places[best], nil
}

// distanceKm is the equirectangular approximation, good enough at city scale.
func distanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	x := (lon2 - lon1) * rad * math.Cos((lat1+lat2)/2*rad)
	y := (lat2 - lat1) * rad
	return math.Sqrt(x*x+y*y) * earthRadiusKm
}
