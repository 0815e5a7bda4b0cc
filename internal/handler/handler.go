package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Dan9191/taxflow/internal/models"
	"github.com/Dan9191/taxflow/internal/pan"
	"github.com/Dan9191/taxflow/internal/report"
	"github.com/Dan9191/taxflow/internal/repository"
	"github.com/Dan9191/taxflow/internal/service"
	"github.com/Dan9191/taxflow/internal/tax"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type calculateRequest struct {
	PAN        string           `json:"pan"`
	Income     *decimal.Decimal `json:"income"`
	Deductions *decimal.Decimal `json:"deductions"`
	EMI        *decimal.Decimal `json:"emi"`
	Age        *int             `json:"age"`
	Save       *bool            `json:"save"`
	Email      string           `json:"email,omitempty"`
}

func (req calculateRequest) toService() (service.CalculateRequest, error) {
	if req.Income == nil {
		return service.CalculateRequest{}, fmt.Errorf("%w: income is required", tax.ErrInvalidInput)
	}
	out := service.CalculateRequest{
		PAN:    req.PAN,
		Income: *req.Income,
		Age:    req.Age,
		Save:   true,
	}
	if req.Deductions != nil {
		out.Deductions = *req.Deductions
	}
	if req.EMI != nil {
		out.EMI = *req.EMI
	}
	if req.Save != nil {
		out.Save = *req.Save
	}
	return out, nil
}

type profileRequest struct {
	Income     decimal.Decimal `json:"income"`
	Deductions decimal.Decimal `json:"deductions"`
	EMI        decimal.Decimal `json:"emi"`
	Age        int             `json:"age"`
}

// Calculate handles tax calculation. ?format=text or ?format=xml switch the
// response to the rendered report.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var body calculateRequest
	if err := decode(r, &body); err != nil {
		h.writeError(w, err)
		return
	}
	req, err := body.toService()
	if err != nil {
		h.writeError(w, err)
		return
	}

	calc, err := h.svc.Calculate(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeCalculation(w, r, calc)
}

// EmailReport calculates and mails the report to body.email
func (h *Handler) EmailReport(w http.ResponseWriter, r *http.Request) {
	var body calculateRequest
	if err := decode(r, &body); err != nil {
		h.writeError(w, err)
		return
	}
	req, err := body.toService()
	if err != nil {
		h.writeError(w, err)
		return
	}

	calc, err := h.svc.EmailReport(r.Context(), req, body.Email)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, calc)
}

// ValidatePAN reports whether the path PAN is well formed and its entity type
func (h *Handler) ValidatePAN(w http.ResponseWriter, r *http.Request) {
	code := pan.Normalize(mux.Vars(r)["pan"])
	resp := struct {
		PAN    string          `json:"pan"`
		Valid  bool            `json:"valid"`
		Entity *pan.EntityType `json:"entity,omitempty"`
	}{PAN: code, Valid: pan.ValidateFormat(code)}

	if resp.Valid {
		entity, err := pan.Classify(code)
		if err != nil {
			h.writeError(w, err)
			return
		}
		resp.Entity = &entity
	}
	writeJSON(w, http.StatusOK, resp)
}

// Regimes lists the active regime and the ones available
func (h *Handler) Regimes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"active":    h.svc.RegimeName(),
		"available": tax.Regimes(),
	})
}

// GetProfile returns the stored profile for autofill
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Profile(r.Context(), mux.Vars(r)["pan"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PutProfile stores the profile for the path PAN
func (h *Handler) PutProfile(w http.ResponseWriter, r *http.Request) {
	var body profileRequest
	if err := decode(r, &body); err != nil {
		h.writeError(w, err)
		return
	}
	p := &models.Profile{
		PAN:        mux.Vars(r)["pan"],
		Income:     body.Income,
		Deductions: body.Deductions,
		EMI:        body.EMI,
		Age:        body.Age,
	}
	if err := h.svc.SaveProfile(r.Context(), p); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProfile removes the profile for the path PAN
func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProfile(r.Context(), mux.Vars(r)["pan"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeCalculation(w http.ResponseWriter, r *http.Request, calc *models.Calculation) {
	switch r.URL.Query().Get("format") {
	case "", "json":
		writeJSON(w, http.StatusOK, calc)
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(report.Text(calc)))
	case "xml":
		out, err := report.XML(calc)
		if err != nil {
			h.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		w.Write(out)
	default:
		h.writeError(w, fmt.Errorf("%w: unknown format %q", tax.ErrInvalidInput, r.URL.Query().Get("format")))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pan.ErrInvalidFormat),
		errors.Is(err, pan.ErrTooShort),
		errors.Is(err, tax.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrMailDisabled):
		status = http.StatusServiceUnavailable
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.log.Errorf("Request failed: %v", err)
		msg = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", tax.ErrInvalidInput, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
