package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/diewo77/customer-portal/internal/form"
	"github.com/diewo77/customer-portal/internal/models"
)

// Backend is the subset of the API client the customer views need.
type Backend interface {
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	SearchCustomers(ctx context.Context, query string) ([]models.Customer, error)
	CreateCustomer(ctx context.Context, in models.CustomerInput) error
	UpdateCustomer(ctx context.Context, id uint, in models.CustomerInput) error
	DeleteCustomer(ctx context.Context, id uint) error
	Geocode(ctx context.Context, address string) (lat, lon string, ok bool, err error)
	ReverseGeocode(ctx context.Context, lat, lon string) (string, error)
}

// ErrNoSelection is returned by edit/delete when no row is selected.
var ErrNoSelection = errors.New("no_selection")

// Notification texts shown after list and form actions.
const (
	MsgSelectToEdit   = "Please select a customer to edit"
	MsgSelectToDelete = "Please select a customer to delete"
	MsgDeleted        = "Customer deleted successfully"
	MsgDeleteFailed   = "Failed to delete customer"
	MsgLoadFailed     = "Failed to load customers"
	MsgAdded          = "Customer added successfully!"
	MsgUpdated        = "Customer updated successfully!"
	MsgSaveFailed     = "Failed to save customer!"
	MsgFormClosed     = "That form is no longer open"
)

type CustomerService struct {
	backend Backend
}

func NewCustomerService(b Backend) *CustomerService {
	return &CustomerService{backend: b}
}

// Load fetches the full collection.
func (s *CustomerService) Load(ctx context.Context) ([]models.Customer, error) {
	return s.backend.ListCustomers(ctx)
}

// Search behaves like Load for a blank query, otherwise asks the backend to filter.
func (s *CustomerService) Search(ctx context.Context, query string) ([]models.Customer, error) {
	if strings.TrimSpace(query) == "" {
		return s.Load(ctx)
	}
	return s.backend.SearchCustomers(ctx, query)
}

// Edit opens an edit draft for the selected customer.
func (s *CustomerService) Edit(selected *models.Customer) (*form.Draft, error) {
	if selected == nil {
		return nil, ErrNoSelection
	}
	return form.NewEdit(*selected), nil
}

// CheckDelete validates that a delete can be asked for confirmation.
func (s *CustomerService) CheckDelete(selected *models.Customer) error {
	if selected == nil {
		return ErrNoSelection
	}
	return nil
}

// Delete removes the confirmed selection and reloads the list. On failure the
// returned rows are nil and the caller keeps its state. Rows are also nil
// when the delete succeeded but the reload did not.
func (s *CustomerService) Delete(ctx context.Context, selected *models.Customer) ([]models.Customer, models.Message, error) {
	if selected == nil {
		return nil, models.Message{Text: MsgSelectToDelete, Severity: models.SeverityWarning}, ErrNoSelection
	}
	if err := s.backend.DeleteCustomer(ctx, selected.ID); err != nil {
		log.Printf("delete customer %d: %v", selected.ID, err)
		return nil, models.Message{Text: MsgDeleteFailed, Severity: models.SeverityError}, err
	}
	msg := models.Message{Text: MsgDeleted, Severity: models.SeveritySuccess}
	rows, err := s.Load(ctx)
	if err != nil {
		log.Printf("reload after delete: %v", err)
		return nil, msg, nil
	}
	return rows, msg, nil
}

// Locate forward-geocodes the draft's address text. Failures are logged and
// leave the draft unchanged.
func (s *CustomerService) Locate(ctx context.Context, d *form.Draft) {
	q, err := d.GeocodeQuery()
	if err != nil {
		return
	}
	lat, lon, ok, err := s.backend.Geocode(ctx, q)
	if err != nil {
		log.Printf("geocoding failed for %q: %v", q, err)
		return
	}
	if !ok {
		return
	}
	d.Latitude, d.Longitude = lat, lon
}

// ResolveAddress reverse-geocodes the draft's coordinates into its address
// text. Failures are logged and leave the draft unchanged.
func (s *CustomerService) ResolveAddress(ctx context.Context, d *form.Draft) {
	lat, lon, err := d.ReverseQuery()
	if err != nil {
		return
	}
	addr, err := s.backend.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		log.Printf("reverse geocode failed for %s,%s: %v", lat, lon, err)
		return
	}
	if addr != "" {
		d.AddressText = addr
	}
}

// Save submits the draft and returns the one-shot message for the list view.
// Either way the user is sent back to the list.
func (s *CustomerService) Save(ctx context.Context, d *form.Draft) models.Message {
	failed := models.Message{Text: MsgSaveFailed, Severity: models.SeverityError}
	in, err := d.Input()
	if err != nil {
		log.Printf("save failed: %v", err)
		return failed
	}
	if d.Mode == form.ModeEdit {
		if err := s.backend.UpdateCustomer(ctx, d.CustomerID, in); err != nil {
			log.Printf("save failed: update customer %d: %v", d.CustomerID, err)
			return failed
		}
		return models.Message{Text: MsgUpdated, Severity: models.SeverityInfo}
	}
	if err := s.backend.CreateCustomer(ctx, in); err != nil {
		log.Printf("save failed: create customer: %v", err)
		return failed
	}
	return models.Message{Text: MsgAdded, Severity: models.SeveritySuccess}
}
