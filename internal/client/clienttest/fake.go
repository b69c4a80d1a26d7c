// Package clienttest provides an in-memory stand-in for the backend client
// that counts calls per method.
package clienttest

import (
	"context"
	"strings"
	"sync"

	"github.com/diewo77/customer-portal/internal/models"
)

// Fake implements every client method used by the portal. Func fields
// override the default behaviour; Calls counts invocations per method name.
type Fake struct {
	mu    sync.Mutex
	Calls map[string]int

	Customers []models.Customer
	// Created and Updated record the payloads received.
	Created []models.CustomerInput
	Updated map[uint]models.CustomerInput
	Deleted []uint

	LoginFunc          func(ctx context.Context, username, password string) error
	RegisterFunc       func(ctx context.Context, username, password, email string) error
	ForgotPasswordFunc func(ctx context.Context, email string) (string, error)
	ListFunc           func(ctx context.Context) ([]models.Customer, error)
	SearchFunc         func(ctx context.Context, query string) ([]models.Customer, error)
	CreateFunc         func(ctx context.Context, in models.CustomerInput) error
	UpdateFunc         func(ctx context.Context, id uint, in models.CustomerInput) error
	DeleteFunc         func(ctx context.Context, id uint) error
	GeocodeFunc        func(ctx context.Context, address string) (string, string, bool, error)
	ReverseFunc        func(ctx context.Context, lat, lon string) (string, error)
}

func New(customers ...models.Customer) *Fake {
	return &Fake{
		Calls:     make(map[string]int),
		Customers: customers,
		Updated:   make(map[uint]models.CustomerInput),
	}
}

func (f *Fake) count(name string) {
	f.mu.Lock()
	f.Calls[name]++
	f.mu.Unlock()
}

// Count returns how many times method name was called.
func (f *Fake) Count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[name]
}

// Total returns the number of calls across all methods.
func (f *Fake) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		n += c
	}
	return n
}

func (f *Fake) Login(ctx context.Context, username, password string) error {
	f.count("Login")
	if f.LoginFunc != nil {
		return f.LoginFunc(ctx, username, password)
	}
	return nil
}

func (f *Fake) Register(ctx context.Context, username, password, email string) error {
	f.count("Register")
	if f.RegisterFunc != nil {
		return f.RegisterFunc(ctx, username, password, email)
	}
	return nil
}

func (f *Fake) ForgotPassword(ctx context.Context, email string) (string, error) {
	f.count("ForgotPassword")
	if f.ForgotPasswordFunc != nil {
		return f.ForgotPasswordFunc(ctx, email)
	}
	return "Reset link sent", nil
}

func (f *Fake) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	f.count("ListCustomers")
	if f.ListFunc != nil {
		return f.ListFunc(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Customer(nil), f.Customers...), nil
}

func (f *Fake) SearchCustomers(ctx context.Context, query string) ([]models.Customer, error) {
	f.count("SearchCustomers")
	if f.SearchFunc != nil {
		return f.SearchFunc(ctx, query)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	q := strings.ToLower(query)
	var out []models.Customer
	for _, c := range f.Customers {
		if strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.Email), q) ||
			strings.Contains(c.MobileNo, q) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *Fake) CreateCustomer(ctx context.Context, in models.CustomerInput) error {
	f.count("CreateCustomer")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, in)
	}
	f.mu.Lock()
	f.Created = append(f.Created, in)
	f.mu.Unlock()
	return nil
}

func (f *Fake) UpdateCustomer(ctx context.Context, id uint, in models.CustomerInput) error {
	f.count("UpdateCustomer")
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, id, in)
	}
	f.mu.Lock()
	f.Updated[id] = in
	f.mu.Unlock()
	return nil
}

func (f *Fake) DeleteCustomer(ctx context.Context, id uint) error {
	f.count("DeleteCustomer")
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, id)
	kept := f.Customers[:0]
	for _, c := range f.Customers {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	f.Customers = kept
	return nil
}

func (f *Fake) Geocode(ctx context.Context, address string) (string, string, bool, error) {
	f.count("Geocode")
	if f.GeocodeFunc != nil {
		return f.GeocodeFunc(ctx, address)
	}
	return "", "", false, nil
}

func (f *Fake) ReverseGeocode(ctx context.Context, lat, lon string) (string, error) {
	f.count("ReverseGeocode")
	if f.ReverseFunc != nil {
		return f.ReverseFunc(ctx, lat, lon)
	}
	return "", nil
}
