// Package client is a thin HTTP client for the customer backend.
// It performs no retries and no caching: one call per method invocation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"github.com/diewo77/customer-portal/internal/models"
)

// Client talks to the backend REST service rooted at a base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client (tests, custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New returns a client for the backend at baseURL.
// No timeout is set: calls are bounded by the caller's context.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string { return c.baseURL }

// Login checks credentials against the backend.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	return c.doJSON(ctx, http.MethodPost, "/login", body, nil)
}

// Register creates a backend account.
func (c *Client) Register(ctx context.Context, username, password, email string) error {
	body := map[string]string{"username": username, "password": password, "email": email}
	return c.doJSON(ctx, http.MethodPost, "/register", body, nil)
}

// ForgotPassword requests a reset link and returns the backend's message.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var out messageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/forgot-password", map[string]string{"email": email}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// ListCustomers fetches the full customer collection.
func (c *Client) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var out []wireCustomer
	if err := c.doJSON(ctx, http.MethodGet, "/customers/", nil, &out); err != nil {
		return nil, err
	}
	return normalizeAll(out), nil
}

// SearchCustomers fetches customers whose name, email or mobile number contains query.
func (c *Client) SearchCustomers(ctx context.Context, query string) ([]models.Customer, error) {
	var out []wireCustomer
	path := "/customers/search?value=" + url.QueryEscape(query)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return normalizeAll(out), nil
}

// CreateCustomer submits a new customer as a multipart form.
func (c *Client) CreateCustomer(ctx context.Context, in models.CustomerInput) error {
	return c.doMultipart(ctx, http.MethodPost, "/customers/", in)
}

// UpdateCustomer replaces the editable fields of customer id.
func (c *Client) UpdateCustomer(ctx context.Context, id uint, in models.CustomerInput) error {
	return c.doMultipart(ctx, http.MethodPut, "/customers/"+strconv.FormatUint(uint64(id), 10), in)
}

// DeleteCustomer removes customer id.
func (c *Client) DeleteCustomer(ctx context.Context, id uint) error {
	return c.doJSON(ctx, http.MethodDelete, "/customers/"+strconv.FormatUint(uint64(id), 10), nil, nil)
}

// Geocode resolves address text to coordinates. ok is false when the backend
// answered without both coordinates.
func (c *Client) Geocode(ctx context.Context, address string) (lat, lon string, ok bool, err error) {
	var out geocodeResponse
	path := "/customers/geocode-address?address=" + url.QueryEscape(address)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return "", "", false, err
	}
	if out.Lat == "" || out.Lon == "" {
		return "", "", false, nil
	}
	return string(out.Lat), string(out.Lon), true, nil
}

// ReverseGeocode resolves coordinates to address text ("" when unknown).
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon string) (string, error) {
	var out reverseGeocodeResponse
	q := url.Values{}
	q.Set("lat", lat)
	q.Set("lon", lon)
	if err := c.doJSON(ctx, http.MethodGet, "/customers/reverse-geocode?"+q.Encode(), nil, &out); err != nil {
		return "", err
	}
	return string(out.AddressText), nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return c.send(req, out)
}

func (c *Client) doMultipart(ctx context.Context, method, path string, in models.CustomerInput) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := []struct{ name, value string }{
		{"name", in.Name},
		{"email", in.Email},
		{"mobileno", in.MobileNo},
		{"address_text", in.AddressText},
		{"latitude", in.Latitude},
		{"longitude", in.Longitude},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return fmt.Errorf("encode field %s: %w", f.name, err)
		}
	}
	if in.Image != nil && len(in.Image.Data) > 0 {
		if err := writeImagePart(mw, in.Image); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	return c.send(req, nil)
}

func writeImagePart(mw *multipart.Writer, p *models.Photo) error {
	filename := p.Filename
	if filename == "" {
		filename = "photo.jpg"
	}
	ct := p.ContentType
	if ct == "" {
		ct = http.DetectContentType(p.Data)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	h.Set("Content-Type", ct)
	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create image part: %w", err)
	}
	if _, err := part.Write(p.Data); err != nil {
		return fmt.Errorf("write image part: %w", err)
	}
	return nil
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", req.Method, req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseErrorBody(resp.StatusCode, b)
	}
	if out == nil || len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
