package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/customer-portal/auth"
	"github.com/diewo77/customer-portal/internal/form"
	"github.com/diewo77/customer-portal/internal/models"
	"github.com/diewo77/customer-portal/internal/services"
	"github.com/diewo77/customer-portal/view"
)

// StaleHeader marks a search response that was overtaken by a newer one.
const StaleHeader = "X-Search-Stale"

type CustomerHandler struct {
	svc *services.CustomerService
}

func NewCustomerHandler(svc *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func (h *CustomerHandler) listData(r *http.Request, sess *auth.Session, rows []models.Customer, query string) map[string]any {
	q := r.URL.Query()
	page := models.Paginate(rows, atoiDefault(q.Get("page"), 1), atoiDefault(q.Get("size"), models.DefaultPageSize))
	var selectedID uint
	if sel := sess.Selected(); sel != nil {
		selectedID = sel.ID
	}
	return map[string]any{
		"Page":       page,
		"Query":      query,
		"SelectedID": selectedID,
		"PageSizes":  models.PageSizes,
	}
}

// List renders the customer list. Rows primed by a delete are shown as is;
// otherwise the list is fetched (or searched when q is set). Each list view
// starts a new search page, so the page script numbers its searches from 1.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	msg := sess.TakeFlash()
	query := r.URL.Query().Get("q")
	page := sess.BeginPage()

	rows, primed := sess.TakePrimed()
	if !primed || query != "" {
		var err error
		rows, err = h.svc.Search(r.Context(), query)
		if err != nil {
			log.Printf("load customers: %v", err)
			rows = nil
			if msg == nil {
				msg = &models.Message{Text: services.MsgLoadFailed, Severity: models.SeverityError}
			}
		}
		sess.SetRows(rows)
	}
	data := h.listData(r, sess, rows, query)
	data["Message"] = msg
	data["SearchPage"] = page
	render(w, r, "customers/index.html", data)
}

func parseUint(s string) uint64 {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Rows answers a search-as-you-type request with the table fragment. page and
// seq are assigned by the list page; a response overtaken by a later search
// is flagged stale. A failed search keeps the previous rows and adds an error
// notification to the fragment.
func (h *CustomerHandler) Rows(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	q := r.URL.Query()
	query := q.Get("q")

	var ticket auth.SearchTicket
	if seq := parseUint(q.Get("seq")); seq > 0 {
		ticket = sess.ObserveSearch(parseUint(q.Get("page")), seq)
	} else {
		ticket = sess.BeginSearch()
	}

	rows, err := h.svc.Search(r.Context(), query)
	var msg *models.Message
	if err != nil {
		log.Printf("search %q: %v", query, err)
		rows = sess.Rows()
		msg = &models.Message{Text: services.MsgLoadFailed, Severity: models.SeverityError}
	} else if !sess.FinishSearch(ticket, rows) {
		w.Header().Set(StaleHeader, "1")
	}
	data := h.listData(r, sess, rows, query)
	data["RowsMessage"] = msg
	if err := view.RenderBlock(w, r, "customers/index.html", "customer-rows", data); err != nil {
		log.Printf("render rows: %v", err)
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
	}
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

// back returns a same-site path to return to, "/" otherwise.
func back(r *http.Request) string {
	if b := r.FormValue("back"); strings.HasPrefix(b, "/") && !strings.HasPrefix(b, "//") {
		return b
	}
	return "/"
}

// Select marks one row as selected, replacing any previous selection.
func (h *CustomerHandler) Select(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	id, err := strconv.ParseUint(r.FormValue("id"), 10, 64)
	ok := err == nil && sess.Select(uint(id))
	if wantsJSON(r) {
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, back(r), http.StatusSeeOther)
}

// Add opens the form in create mode.
func (h *CustomerHandler) Add(w http.ResponseWriter, r *http.Request) {
	token := auth.FromContext(r.Context()).OpenDraft(form.NewCreate())
	http.Redirect(w, r, formURL(token), http.StatusSeeOther)
}

// Edit opens the form seeded with the selection, or warns when there is none.
func (h *CustomerHandler) Edit(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	d, err := h.svc.Edit(sess.Selected())
	if errors.Is(err, services.ErrNoSelection) {
		flash(r, services.MsgSelectToEdit, models.SeverityWarning)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, formURL(sess.OpenDraft(d)), http.StatusSeeOther)
}

// DeleteAsk starts a delete: a warning when nothing is selected, otherwise
// the confirmation view.
func (h *CustomerHandler) DeleteAsk(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CheckDelete(auth.FromContext(r.Context()).Selected()); err != nil {
		flash(r, services.MsgSelectToDelete, models.SeverityWarning)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/customers/delete", http.StatusSeeOther)
}

// DeleteConfirmPage asks for confirmation. Declining is a plain link back to
// the list and issues no call.
func (h *CustomerHandler) DeleteConfirmPage(w http.ResponseWriter, r *http.Request) {
	sel := auth.FromContext(r.Context()).Selected()
	if h.svc.CheckDelete(sel) != nil {
		flash(r, services.MsgSelectToDelete, models.SeverityWarning)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	render(w, r, "customers/delete.html", map[string]any{"Selected": sel})
}

// DeleteConfirm performs the confirmed delete.
func (h *CustomerHandler) DeleteConfirm(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	rows, msg, err := h.svc.Delete(r.Context(), sess.Selected())
	sess.SetFlash(msg)
	if err == nil {
		sess.ClearSelection()
		// nil rows mean the reload failed; the list view fetches again.
		if rows != nil {
			sess.PrimeRows(rows)
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
