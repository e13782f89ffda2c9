package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fernside/pawbase/internal/booking"
	"github.com/fernside/pawbase/internal/content"
)

// SiteHandler serves marketing-site content sections and open-day
// bookings.
type SiteHandler struct {
	content  *content.Store
	bookings *booking.Service
}

// NewSiteHandler creates a SiteHandler.
func NewSiteHandler(store *content.Store, bookings *booking.Service) *SiteHandler {
	return &SiteHandler{content: store, bookings: bookings}
}

// Content handles GET /content, returning every loaded section.
func (h *SiteHandler) Content(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.content.All())
}

// ContentSection handles GET /content/{section}.
func (h *SiteHandler) ContentSection(w http.ResponseWriter, r *http.Request) {
	section, err := h.content.Section(chi.URLParam(r, "section"))
	if err != nil {
		writeDomainErr(w, "get content section", err)
		return
	}
	writeJSON(w, http.StatusOK, section)
}

// Slots handles GET /open-day/slots.
func (h *SiteHandler) Slots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.bookings.ListSlots(r.Context())
	if err != nil {
		writeDomainErr(w, "list slots", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"slots": slots})
}

// Book handles POST /open-day/bookings.
func (h *SiteHandler) Book(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("slot_id, full_name, and email are required"))
		return
	}

	b, err := h.bookings.Book(r.Context(), req.SlotID, req.FullName, req.Email)
	if err != nil {
		writeDomainErr(w, "book slot", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"booking": b,
	})
}
