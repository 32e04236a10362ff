package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vet-appointments/internal/middleware"
	"vet-appointments/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Post("/", bookHandler(svc))
		ar.Get("/", listOwnHandler(svc))
		ar.Get("/slots/{date}", availableSlotsHandler(svc))
		ar.Get("/{appointmentID}", getOwnHandler(svc))
		ar.Patch("/{appointmentID}", updateOwnHandler(svc))
		ar.Delete("/{appointmentID}", cancelHandler(svc))
	})

	// Vive acá y no en vets: requiere saber qué slots están tomados.
	r.Get("/veterinarians/available", availableVetHandler(svc))
}

type bookRequest struct {
	PetID         string `json:"pet_id" validate:"required"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
	Time          string `json:"time" validate:"required"`
	Reason        string `json:"reason"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=pay_now pay_later"`
}

type updateRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Date   *string `json:"date"`
	Time   *string `json:"time"`
	Reason *string `json:"reason"`
}

type appointmentResponse struct {
	ID            string    `json:"id"`
	PetID         string    `json:"pet_id"`
	VetID         string    `json:"vet_id"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Reason        string    `json:"reason,omitempty"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type slotsResponse struct {
	Date                string   `json:"date"`
	AvailableSlots      []string `json:"available_slots"`
	TotalAvailableSlots int      `json:"total_available_slots"`
}

type availableVetResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization,omitempty"`
}

// bookHandler godoc
// @Summary Reserva un turno; el sistema asigna un veterinario libre
// @Tags appointments
// @Success 201 {object} appointments.appointmentResponse
// @Router /appointments [post]
func bookHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		var req bookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "pet_id, date (YYYY-MM-DD), time and payment_method (pay_now|pay_later) are required", http.StatusBadRequest)
			return
		}

		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		a, err := svc.Book(r.Context(), ownerFromClaims(claims), BookInput{
			PetID:         req.PetID,
			Date:          date,
			TimeSlot:      req.Time,
			Reason:        req.Reason,
			PaymentMethod: PaymentMethod(req.PaymentMethod),
		})
		if err != nil {
			writeAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toResponse(a))
	}
}

func listOwnHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		items, err := svc.ListOwn(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]appointmentResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getOwnHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		a, err := svc.GetOwn(r.Context(), claims.UserID, chi.URLParam(r, "appointmentID"))
		if err != nil {
			writeAppointmentError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(a))
	}
}

func updateOwnHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		var req updateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			TimeSlot: req.Time,
			Reason:   req.Reason,
		}
		if req.Date != nil {
			d, err := time.Parse("2006-01-02", *req.Date)
			if err != nil {
				http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.Date = &d
		}

		a, err := svc.UpdateOwn(r.Context(), claims.UserID, chi.URLParam(r, "appointmentID"), in)
		if err != nil {
			writeAppointmentError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(a))
	}
}

func cancelHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		if err := svc.Cancel(r.Context(), claims.UserID, chi.URLParam(r, "appointmentID")); err != nil {
			writeAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "appointment cancelled"})
	}
}

// availableSlotsHandler godoc
// @Summary Slots con capacidad para una fecha
// @Tags appointments
// @Success 200 {object} appointments.slotsResponse
// @Router /appointments/slots/{date} [get]
func availableSlotsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireClaims(w, r); !ok {
			return
		}

		date, err := time.Parse("2006-01-02", chi.URLParam(r, "date"))
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		report, err := svc.AvailableSlots(r.Context(), date)
		if err != nil {
			writeAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, slotsResponse{
			Date:                report.Date.Format("2006-01-02"),
			AvailableSlots:      report.AvailableSlots,
			TotalAvailableSlots: report.Count,
		})
	}
}

func availableVetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireClaims(w, r); !ok {
			return
		}

		dateStr := strings.TrimSpace(r.URL.Query().Get("date"))
		slot := strings.TrimSpace(r.URL.Query().Get("time"))
		if dateStr == "" || slot == "" {
			http.Error(w, "date and time are required", http.StatusBadRequest)
			return
		}

		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		v, err := svc.AvailableVetFor(r.Context(), date, slot)
		if err != nil {
			if errors.Is(err, ErrNoVetAvailable) {
				// Condición reportable, no un error del sistema.
				http.Error(w, ErrNoVetAvailable.Error(), http.StatusNotFound)
				return
			}
			writeAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, availableVetResponse{
			ID:             v.ID,
			Name:           v.Name,
			Specialization: v.Specialization,
		})
	}
}

func writeAppointmentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrPastDate):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "appointment not found", http.StatusNotFound)
	case errors.Is(err, ErrNoVetAvailable), errors.Is(err, ErrSlotTaken), errors.Is(err, ErrBadTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toResponse(a Appointment) appointmentResponse {
	return appointmentResponse{
		ID:            a.ID,
		PetID:         a.PetID,
		VetID:         a.VetID,
		Date:          a.Date.Format("2006-01-02"),
		Time:          a.TimeSlot,
		Reason:        a.Reason,
		PaymentMethod: string(a.PaymentMethod),
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func ownerFromClaims(c auth.Claims) Owner {
	return Owner{
		UserID: c.UserID,
		Email:  c.Email,
		Name:   c.Name,
	}
}

func requireClaims(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return auth.Claims{}, false
	}
	return claims, true
}

// writeJSON está duplicado a propósito entre módulos (ver nota en pets).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
