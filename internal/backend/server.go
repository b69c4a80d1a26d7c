// Package backend is a development implementation of the customer API the
// portal consumes. It stores data with gorm and routes with chi.
package backend

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/customer-portal/httpx"
	"github.com/diewo77/customer-portal/internal/db"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

// Response texts.
const (
	MsgInvalidLogin   = "Invalid username or password"
	MsgLoggedIn       = "Login successful"
	MsgUsernameTaken  = "Username already exists"
	MsgFieldsRequired = "Username, password and email are required"
	MsgRegistered     = "User registered successfully"
	MsgResetSent      = "If the email is registered, a reset link has been sent"
	MsgNotFound       = "Customer not found"
	MsgPlaceNotFound  = "Address not found"
	MsgInternal       = "Internal server error"
)

const maxUploadBytes = 10 << 20

type Server struct {
	store *Store
	geo   *Gazetteer
}

// Options tunes a Server.
type Options struct {
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

func NewServer(d *gorm.DB, opts Options) *Server {
	return &Server{store: NewStore(d, opts.BcryptCost), geo: NewGazetteer(d)}
}

// Router returns the HTTP API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/login", s.login)
	r.Post("/register", s.register)
	r.Post("/forgot-password", s.forgotPassword)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/customers", func(r chi.Router) {
		r.Get("/", s.listCustomers)
		r.Post("/", s.createCustomer)
		r.Get("/search", s.searchCustomers)
		r.Get("/geocode-address", s.geocode)
		r.Get("/reverse-geocode", s.reverseGeocode)
		r.Put("/{id}", s.updateCustomer)
		r.Delete("/{id}", s.deleteCustomer)
	})
	return r
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := decode(r, &c); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if _, err := s.store.Authenticate(r.Context(), c.Username, c.Password); err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			log.Printf("login: %v", err)
			httpx.Message(w, http.StatusInternalServerError, MsgInternal)
			return
		}
		httpx.Message(w, http.StatusUnauthorized, MsgInvalidLogin)
		return
	}
	httpx.Message(w, http.StatusOK, MsgLoggedIn)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := decode(r, &c); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(c.Username) == "" || c.Password == "" || strings.TrimSpace(c.Email) == "" {
		httpx.Message(w, http.StatusBadRequest, MsgFieldsRequired)
		return
	}
	if _, err := s.store.Register(r.Context(), c.Username, c.Password, c.Email); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			httpx.Message(w, http.StatusConflict, MsgUsernameTaken)
			return
		}
		log.Printf("register: %v", err)
		httpx.Message(w, http.StatusInternalServerError, MsgInternal)
		return
	}
	httpx.Message(w, http.StatusCreated, MsgRegistered)
}

func (s *Server) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := decode(r, &c); err != nil || strings.TrimSpace(c.Email) == "" {
		httpx.Message(w, http.StatusBadRequest, "Email is required")
		return
	}
	token, ok, err := s.store.StartReset(r.Context(), c.Email)
	if err != nil {
		log.Printf("forgot password: %v", err)
		httpx.Message(w, http.StatusInternalServerError, MsgInternal)
		return
	}
	if ok {
		// No mailer in development: the link goes to the log.
		log.Printf("password reset token for %s: %s", c.Email, token)
	}
	httpx.Message(w, http.StatusOK, MsgResetSent)
}

type addressJSON struct {
	AddressText string   `json:"address_text"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

type customerJSON struct {
	ID        uint         `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	MobileNo  string       `json:"mobileno"`
	ImageData string       `json:"image_data,omitempty"`
	Address   *addressJSON `json:"address,omitempty"`
}

func toJSON(c db.Customer) customerJSON {
	out := customerJSON{ID: c.ID, Name: c.Name, Email: c.Email, MobileNo: c.MobileNo}
	if len(c.Image) > 0 {
		out.ImageData = base64.StdEncoding.EncodeToString(c.Image)
	}
	if c.AddressText != "" || c.Latitude != nil || c.Longitude != nil {
		out.Address = &addressJSON{AddressText: c.AddressText, Latitude: c.Latitude, Longitude: c.Longitude}
	}
	return out
}

func writeCustomers(w http.ResponseWriter, cs []db.Customer) {
	out := make([]customerJSON, 0, len(cs))
	for _, c := range cs {
		out = append(out, toJSON(c))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	cs, err := s.store.ListCustomers(r.Context())
	if err != nil {
		log.Printf("list customers: %v", err)
		httpx.Message(w, http.StatusInternalServerError, MsgInternal)
		return
	}
	writeCustomers(w, cs)
}

func (s *Server) searchCustomers(w http.ResponseWriter, r *http.Request) {
	cs, err := s.store.SearchCustomers(r.Context(), r.URL.Query().Get("value"))
	if err != nil {
		log.Printf("search customers: %v", err)
		httpx.Message(w, http.StatusInternalServerError, MsgInternal)
		return
	}
	writeCustomers(w, cs)
}

// fieldError is a client mistake in a submitted customer form.
type fieldError struct{ msg string }

func (e *fieldError) Error() string { return e.msg }

func parseCoord(v, name string) (*float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, &fieldError{"Invalid " + name}
	}
	return &f, nil
}

// applyForm copies the multipart fields onto c. The image is replaced only
// when a file is sent; coordinates are geocoded when absent.
func (s *Server) applyForm(r *http.Request, c *db.Customer) error {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return &fieldError{"Invalid form data"}
	}
	c.Name = r.FormValue("name")
	c.Email = r.FormValue("email")
	c.MobileNo = r.FormValue("mobileno")
	c.AddressText = strings.TrimSpace(r.FormValue("address_text"))

	lat, err := parseCoord(r.FormValue("latitude"), "latitude")
	if err != nil {
		return err
	}
	lon, err := parseCoord(r.FormValue("longitude"), "longitude")
	if err != nil {
		return err
	}
	if (lat == nil || lon == nil) && c.AddressText != "" {
		if p, err := s.geo.Geocode(r.Context(), c.AddressText); err == nil {
			lat, lon = &p.Lat, &p.Lon
		}
	}
	c.Latitude, c.Longitude = lat, lon

	f, _, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil
	}
	if err != nil {
		return &fieldError{"Invalid image"}
	}
	defer f.Close()
	img, err := io.ReadAll(f)
	if err != nil {
		return err
	}
	c.Image = img
	return nil
}

func (s *Server) formFailed(w http.ResponseWriter, err error) {
	var fe *fieldError
	if errors.As(err, &fe) {
		httpx.Message(w, http.StatusBadRequest, fe.msg)
		return
	}
	log.Printf("customer form: %v", err)
	httpx.Message(w, http.StatusInternalServerError, MsgInternal)
}

func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	var c db.Customer
	if err := s.applyForm(r, &c); err != nil {
		s.formFailed(w, err)
		return
	}
	if err := s.store.CreateCustomer(r.Context(), &c); err != nil {
		s.formFailed(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toJSON(c))
}

func customerID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	return uint(id), err == nil
}

func (s *Server) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(r)
	if !ok {
		httpx.Message(w, http.StatusBadRequest, "Invalid id")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	c, err := s.store.GetCustomer(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		httpx.Message(w, http.StatusNotFound, MsgNotFound)
		return
	}
	if err != nil {
		s.formFailed(w, err)
		return
	}
	if err := s.applyForm(r, c); err != nil {
		s.formFailed(w, err)
		return
	}
	if err := s.store.SaveCustomer(r.Context(), c); err != nil {
		s.formFailed(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toJSON(*c))
}

func (s *Server) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(r)
	if !ok {
		httpx.Message(w, http.StatusBadRequest, "Invalid id")
		return
	}
	if err := s.store.DeleteCustomer(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Message(w, http.StatusNotFound, MsgNotFound)
			return
		}
		log.Printf("delete customer %d: %v", id, err)
		httpx.Message(w, http.StatusInternalServerError, MsgInternal)
		return
	}
	httpx.Message(w, http.StatusOK, "Customer deleted")
}

func (s *Server) geocode(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		httpx.Message(w, http.StatusBadRequest, "address is required")
		return
	}
	p, err := s.geo.Geocode(r.Context(), address)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Message(w, http.StatusNotFound, MsgPlaceNotFound)
			return
		}
		log.Printf("geocode %q: %v", address, err)
		httpx.Message(w, http.StatusInternalServerError, MsgInternal)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]float64{"lat": p.Lat, "lon": p.Lon})
}

func (s *Server) reverseGeocode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err1 := strconv.ParseFloat(q.Get("lat"), 64)
	lon, err2 := strconv.ParseFloat(q.Get("lon"), 64)
	if err1 != nil || err2 != nil {
		httpx.Message(w, http.StatusBadRequest, "lat and lon must be numbers")
		return
	}
	p, err := s.geo.Reverse(r.Context(), lat, lon)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Message(w, http.StatusNotFound, MsgPlaceNotFound)
			return
		}
		log.Printf("reverse geocode %v,%v: %v", lat, lon, err)
		httpx.Message(w, http.StatusInternalServerError, MsgInternal)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"address_text": p.Name})
}
