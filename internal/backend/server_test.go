package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diewo77/customer-portal/internal/client"
	"github.com/diewo77/customer-portal/internal/db"
	"github.com/diewo77/customer-portal/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	d, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(d); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Seed(d); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return d
}

// setup starts the backend and returns a portal client pointed at it.
func setup(t *testing.T) (*client.Client, *gorm.DB) {
	t.Helper()
	d := setupDB(t)
	srv := httptest.NewServer(NewServer(d, Options{BcryptCost: bcrypt.MinCost}).Router())
	t.Cleanup(srv.Close)
	return client.New(srv.URL), d
}

func TestAccounts(t *testing.T) {
	c, d := setup(t)
	ctx := context.Background()

	if err := c.Register(ctx, "bob", "pw", "bob@x.com"); err != nil {
		t.Fatalf("register: %v", err)
	}
	err := c.Register(ctx, "bob", "pw2", "other@x.com")
	if !client.IsStatus(err, http.StatusConflict) || client.MessageOr(err, "") != MsgUsernameTaken {
		t.Fatalf("expected 409 duplicate, got %v", err)
	}
	if err := c.Register(ctx, "", "pw", "x@x.com"); !client.IsStatus(err, http.StatusBadRequest) {
		t.Fatalf("expected 400 for missing username, got %v", err)
	}

	if err := c.Login(ctx, "bob", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	err = c.Login(ctx, "bob", "nope")
	if !client.IsStatus(err, http.StatusUnauthorized) || client.MessageOr(err, "") != MsgInvalidLogin {
		t.Fatalf("expected 401, got %v", err)
	}

	msg, err := c.ForgotPassword(ctx, "BOB@x.com")
	if err != nil || msg != MsgResetSent {
		t.Fatalf("forgot password: %q %v", msg, err)
	}
	var resets int64
	d.Model(&db.PasswordReset{}).Count(&resets)
	if resets != 1 {
		t.Fatalf("expected one reset token, got %d", resets)
	}
	if msg, err := c.ForgotPassword(ctx, "nobody@x.com"); err != nil || msg != MsgResetSent {
		t.Fatalf("unknown email must look the same: %q %v", msg, err)
	}
}

func TestCustomerRoundTrip(t *testing.T) {
	c, _ := setup(t)
	ctx := context.Background()

	in := models.CustomerInput{
		Name: "Alice", Email: "alice@example.com", MobileNo: "555-0101",
		AddressText: "221B Baker Street",
		Image:       &models.Photo{Filename: "a.png", ContentType: "image/png", Data: []byte("PNGDATA")},
	}
	if err := c.CreateCustomer(ctx, in); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := c.CreateCustomer(ctx, models.CustomerInput{Name: "Bob", Email: "bob@example.com", MobileNo: "777"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	all, err := c.ListCustomers(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("list: %v %v", all, err)
	}
	a := all[0]
	if a.Name != "Alice" || a.Email != "alice@example.com" || a.MobileNo != "555-0101" {
		t.Fatalf("unexpected customer %+v", a)
	}
	if a.Address == nil || a.Address.Text != "221B Baker Street" || a.Address.Latitude != "51.5" || a.Address.Longitude != "-0.15" {
		t.Fatalf("address not geocoded on create: %+v", a.Address)
	}
	if a.ImageData != "UE5HREFUQQ==" {
		t.Fatalf("image not stored: %q", a.ImageData)
	}
	if all[1].Address != nil {
		t.Fatalf("customer without address must have none, got %+v", all[1].Address)
	}

	found, err := c.SearchCustomers(ctx, "ALICE")
	if err != nil || len(found) != 1 || found[0].ID != a.ID {
		t.Fatalf("search: %v %v", found, err)
	}
	found, err = c.SearchCustomers(ctx, "777")
	if err != nil || len(found) != 1 || found[0].Name != "Bob" {
		t.Fatalf("search by mobile: %v %v", found, err)
	}

	upd := models.CustomerInput{Name: "Alice B", Email: a.Email, MobileNo: a.MobileNo, Latitude: "12.9", Longitude: "77.6"}
	if err := c.UpdateCustomer(ctx, a.ID, upd); err != nil {
		t.Fatalf("update: %v", err)
	}
	all, _ = c.ListCustomers(ctx)
	if all[0].Name != "Alice B" || all[0].Address.Latitude != "12.9" || all[0].ImageData != "UE5HREFUQQ==" {
		t.Fatalf("update not applied or image lost: %+v", all[0])
	}

	if err := c.DeleteCustomer(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := c.DeleteCustomer(ctx, a.ID); !client.IsStatus(err, http.StatusNotFound) {
		t.Fatalf("second delete should 404, got %v", err)
	}
	if err := c.UpdateCustomer(ctx, 999, upd); !client.IsStatus(err, http.StatusNotFound) {
		t.Fatalf("update of missing customer should 404, got %v", err)
	}
}

func TestInvalidCoordinatesRejected(t *testing.T) {
	c, _ := setup(t)
	err := c.CreateCustomer(context.Background(), models.CustomerInput{Name: "X", Latitude: "north", Longitude: "1"})
	if !client.IsStatus(err, http.StatusBadRequest) || client.MessageOr(err, "") != "Invalid latitude" {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestGeocodeEndpoints(t *testing.T) {
	c, _ := setup(t)
	ctx := context.Background()

	lat, lon, ok, err := c.Geocode(ctx, "221b baker street")
	if err != nil || !ok || lat != "51.5" || lon != "-0.15" {
		t.Fatalf("geocode: %s %s %v %v", lat, lon, ok, err)
	}
	if _, _, _, err := c.Geocode(ctx, "Atlantis"); !client.IsStatus(err, http.StatusNotFound) {
		t.Fatalf("unknown place should 404, got %v", err)
	}

	addr, err := c.ReverseGeocode(ctx, "12.91", "77.59")
	if err != nil || addr != "MG Road, Bengaluru" {
		t.Fatalf("reverse: %q %v", addr, err)
	}
	if _, err := c.ReverseGeocode(ctx, "0", "0"); !client.IsStatus(err, http.StatusNotFound) {
		t.Fatalf("middle of the ocean should 404, got %v", err)
	}
}

func TestRoutesAcceptBareCollectionPath(t *testing.T) {
	d := setupDB(t)
	h := NewServer(d, Options{BcryptCost: bcrypt.MinCost}).Router()
	for _, p := range []string{"/customers", "/customers/"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
		if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
			t.Fatalf("%s: %d %s", p, w.Code, w.Body.String())
		}
	}
}

func TestDistance(t *testing.T) {
	if d := distanceKm(51.5, -0.15, 51.5, -0.15); d != 0 {
		t.Fatalf("same point should be 0, got %v", d)
	}
	// One degree of latitude is about 111 km.
	if d := distanceKm(0, 0, 1, 0); d < 110 || d > 112 {
		t.Fatalf("unexpected distance %v", d)
	}
}
