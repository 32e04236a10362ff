package appointments

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"vet-appointments/internal/middleware"
	"vet-appointments/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterAdminRoutes(r chi.Router, svc *Service) {
	r.Route("/admin/appointments", func(ar chi.Router) {
		ar.Get("/", adminListHandler(svc))
		ar.Get("/stats", adminStatsHandler(svc))
		ar.Put("/{appointmentID}/status", adminSetStatusHandler(svc))
	})
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled completed cancelled no-show"`
}

type adminAppointmentResponse struct {
	appointmentResponse
	OwnerUserID string `json:"owner_user_id"`
}

type statsResponse struct {
	Today     int `json:"today"`
	Scheduled int `json:"scheduled"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	NoShows   int `json:"no_shows"`
}

func adminListHandler(svc *Service) http.HandlerFunc {
	// Filtros por query: status, date (YYYY-MM-DD), vet_id. Todos opcionales.
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAdmin(w, r); !ok {
			return
		}

		f := Filter{
			Status: Status(strings.TrimSpace(r.URL.Query().Get("status"))),
			VetID:  strings.TrimSpace(r.URL.Query().Get("vet_id")),
		}
		if d := strings.TrimSpace(r.URL.Query().Get("date")); d != "" {
			parsed, err := time.Parse("2006-01-02", d)
			if err != nil {
				http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			f.Date = &parsed
		}

		items, err := svc.AdminList(r.Context(), f)
		if err != nil {
			writeAppointmentError(w, err)
			return
		}

		out := make([]adminAppointmentResponse, 0, len(items))
		for _, a := range items {
			out = append(out, adminAppointmentResponse{
				appointmentResponse: toResponse(a),
				OwnerUserID:         a.OwnerUserID,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// adminSetStatusHandler godoc
// @Summary Transición de estado de un turno (admin)
// @Tags admin
// @Router /admin/appointments/{appointmentID}/status [put]
func adminSetStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAdmin(w, r); !ok {
			return
		}

		var req setStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "status must be: scheduled, completed, cancelled or no-show", http.StatusBadRequest)
			return
		}

		a, err := svc.SetStatus(r.Context(), chi.URLParam(r, "appointmentID"), Status(req.Status))
		if err != nil {
			writeAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, adminAppointmentResponse{
			appointmentResponse: toResponse(a),
			OwnerUserID:         a.OwnerUserID,
		})
	}
}

func adminStatsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAdmin(w, r); !ok {
			return
		}

		st, err := svc.AdminStats(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, statsResponse{
			Today:     st.Today,
			Scheduled: st.Scheduled,
			Completed: st.Completed,
			Cancelled: st.Cancelled,
			NoShows:   st.NoShows,
		})
	}
}

func requireAdmin(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return auth.Claims{}, false
	}
	if !claims.IsAdmin() {
		http.Error(w, "admin privileges required", http.StatusForbidden)
		return auth.Claims{}, false
	}
	return claims, true
}
