package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"

	"github.com/diewo77/customer-portal/auth"
	"github.com/diewo77/customer-portal/httpx"
	"github.com/diewo77/customer-portal/internal/form"
	"github.com/diewo77/customer-portal/internal/models"
	"github.com/diewo77/customer-portal/internal/services"
)

// MaxUploadBytes bounds a form submission including the photo.
const MaxUploadBytes = 10 << 20

// formURL is the address of the open form identified by token.
func formURL(token string) string { return "/customer-form?draft=" + url.QueryEscape(token) }

// openDraft returns the draft for token. A blank token opens a new create
// form. ok is false when token names a form that is no longer open.
func openDraft(sess *auth.Session, token string) (string, *form.Draft, bool) {
	if token == "" {
		d := form.NewCreate()
		return sess.OpenDraft(d), d, true
	}
	d := sess.Draft(token)
	return token, d, d != nil
}

// formClosed sends the user back to the list when a form was closed elsewhere.
func formClosed(w http.ResponseWriter, r *http.Request) {
	flash(r, services.MsgFormClosed, models.SeverityWarning)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Form shows the create/edit form for the draft named by ?draft=.
func (h *CustomerHandler) Form(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	requested := r.URL.Query().Get("draft")
	token, d, ok := openDraft(sess, requested)
	if !ok {
		formClosed(w, r)
		return
	}
	if requested == "" {
		http.Redirect(w, r, formURL(token), http.StatusSeeOther)
		return
	}
	render(w, r, "customer-form.html", map[string]any{
		"Token":   token,
		"Draft":   d,
		"Map":     d.Map(),
		"Preview": d.PreviewSrc(),
	})
}

func readUpload(r *http.Request) (*models.Photo, error) {
	f, hdr, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &models.Photo{Filename: hdr.Filename, ContentType: hdr.Header.Get("Content-Type"), Data: b}, nil
}

// Submit applies the posted fields to the form's draft, then runs the
// requested action: save submits and returns to the list, geocode and reverse
// resolve the address, pick moves to a map point, anything else just
// redisplays the form. The draft is edited as a copy and stored back.
func (h *CustomerHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		log.Printf("parse customer form: %v", err)
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	token, d, ok := openDraft(sess, r.PostFormValue("draft"))
	if !ok {
		formClosed(w, r)
		return
	}
	d.Apply(r.PostForm)
	photo, err := readUpload(r)
	if err != nil {
		log.Printf("read photo: %v", err)
	}
	d.SetUpload(photo)

	switch r.PostFormValue("action") {
	case "save":
		msg := h.svc.Save(r.Context(), d)
		sess.CloseDraft(token)
		sess.SetFlash(msg)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	case "geocode":
		h.svc.Locate(r.Context(), d)
	case "reverse":
		h.svc.ResolveAddress(r.Context(), d)
	case "pick":
		if err := d.PickLocation(r.PostFormValue("pick_lat"), r.PostFormValue("pick_lon")); err != nil {
			log.Printf("map pick ignored: %v", err)
		}
	}
	if !sess.SaveDraft(token, d) {
		formClosed(w, r)
		return
	}
	http.Redirect(w, r, formURL(token), http.StatusSeeOther)
}

// Cancel discards the form's draft and goes back to the list.
func (h *CustomerHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	auth.FromContext(r.Context()).CloseDraft(r.URL.Query().Get("draft"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type geocodeResult struct {
	Found     bool   `json:"found"`
	Latitude  string `json:"latitude,omitempty"`
	Longitude string `json:"longitude,omitempty"`
}

// Geocode resolves ?address= for the page script. Failures answer found=false.
func (h *CustomerHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	d := form.NewCreate()
	d.AddressText = r.URL.Query().Get("address")
	h.svc.Locate(r.Context(), d)
	if d.Latitude == "" || d.Longitude == "" {
		httpx.JSON(w, http.StatusOK, geocodeResult{})
		return
	}
	httpx.JSON(w, http.StatusOK, geocodeResult{Found: true, Latitude: d.Latitude, Longitude: d.Longitude})
}

type reverseResult struct {
	AddressText string `json:"address_text"`
}

// ReverseGeocode resolves ?lat=&lon= to an address for the page script.
func (h *CustomerHandler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	d := form.NewCreate()
	d.Latitude, d.Longitude = q.Get("lat"), q.Get("lon")
	if _, _, err := d.ReverseQuery(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "lat_lon_required", nil)
		return
	}
	h.svc.ResolveAddress(r.Context(), d)
	httpx.JSON(w, http.StatusOK, reverseResult{AddressText: d.AddressText})
}
