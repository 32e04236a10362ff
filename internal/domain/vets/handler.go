package vets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vet-appointments/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// Roster público (para el flujo de reserva del cliente).
	// GET /veterinarians/available lo registra el módulo appointments,
	// que es quien sabe de slots ocupados.
	r.Get("/veterinarians", listAvailableHandler(svc))
}

func RegisterAdminRoutes(r chi.Router, svc *Service) {
	r.Route("/admin/veterinarians", func(ar chi.Router) {
		ar.Get("/", adminListHandler(svc))
		ar.Post("/", adminCreateHandler(svc))
		ar.Put("/{vetID}", adminUpdateHandler(svc))
		ar.Patch("/{vetID}/availability", adminToggleHandler(svc))
		ar.Delete("/{vetID}", adminDeleteHandler(svc))
	})
}

type vetResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization,omitempty"`
	Available      bool      `json:"available"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type createVetRequest struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Available      *bool  `json:"available"`
}

type updateVetRequest struct {
	// Punteros para PUT parcial: nil = no tocar.
	Name           *string `json:"name"`
	Specialization *string `json:"specialization"`
	Available      *bool   `json:"available"`
}

// listAvailableHandler godoc
// @Summary Lista veterinarios disponibles
// @Tags veterinarians
// @Success 200 {array} vets.vetResponse
// @Router /veterinarians [get]
func listAvailableHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireUser(w, r); !ok {
			return
		}

		items, err := svc.ListAvailable(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

func adminListHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAdmin(w, r); !ok {
			return
		}

		items, err := svc.ListAll(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

func adminCreateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAdmin(w, r); !ok {
			return
		}

		var req createVetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		v, err := svc.Create(r.Context(), CreateInput{
			Name:           req.Name,
			Specialization: req.Specialization,
			Available:      req.Available,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "veterinarian name is required", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toResponse(v))
	}
}

func adminUpdateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAdmin(w, r); !ok {
			return
		}

		var req updateVetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		v, err := svc.Update(r.Context(), chi.URLParam(r, "vetID"), UpdateInput{
			Name:           req.Name,
			Specialization: req.Specialization,
			Available:      req.Available,
		})
		if err != nil {
			writeVetError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toResponse(v))
	}
}

func adminToggleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAdmin(w, r); !ok {
			return
		}

		v, err := svc.ToggleAvailability(r.Context(), chi.URLParam(r, "vetID"))
		if err != nil {
			writeVetError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toResponse(v))
	}
}

func adminDeleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAdmin(w, r); !ok {
			return
		}

		err := svc.Delete(r.Context(), chi.URLParam(r, "vetID"))
		if err != nil {
			if errors.Is(err, ErrHasAppointments) {
				http.Error(w,
					"cannot delete veterinarian with existing appointments; set as unavailable instead",
					http.StatusConflict)
				return
			}
			writeVetError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func writeVetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "veterinarian not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toResponse(v Veterinarian) vetResponse {
	return vetResponse{
		ID:             v.ID,
		Name:           v.Name,
		Specialization: v.Specialization,
		Available:      v.Available,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

func toResponses(items []Veterinarian) []vetResponse {
	out := make([]vetResponse, 0, len(items))
	for _, v := range items {
		out = append(out, toResponse(v))
	}
	return out
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return claims.UserID, true
}

func requireAdmin(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	if !claims.IsAdmin() {
		http.Error(w, "admin privileges required", http.StatusForbidden)
		return "", false
	}
	return claims.UserID, true
}

// writeJSON está duplicado a propósito entre módulos (ver nota en pets).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
