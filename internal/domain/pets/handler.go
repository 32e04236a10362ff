package pets

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
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))
		pr.Patch("/{petID}", updatePetHandler(svc))
	})
}

type createPetRequest struct {
	Name    string `json:"name"`
	Species string `json:"species"`
	Breed   string `json:"breed"`
	Sex     string `json:"sex"`
	Age     *int   `json:"age"`
	Notes   string `json:"notes"`
}

type petResponse struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	Name        string    `json:"name"`
	Species     string    `json:"species"`
	Breed       string    `json:"breed,omitempty"`
	Sex         string    `json:"sex"`
	Age         *int      `json:"age,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type updatePetRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name    *string `json:"name"`
	Species *string `json:"species"`
	Breed   *string `json:"breed"`
	Sex     *string `json:"sex"`
	Notes   *string `json:"notes"`
	// age se decodifica aparte para distinguir null de ausente.
}

// createPetHandler godoc
// @Summary Registra una mascota del usuario autenticado
// @Tags pets
// @Success 201 {object} pets.petResponse
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:    req.Name,
			Species: req.Species,
			Breed:   req.Breed,
			Sex:     req.Sex,
			Age:     req.Age,
			Notes:   req.Notes,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "pet name and species are required", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	// Sólo el dueño: para cualquier otro usuario es 404, no 403,
	// para no revelar que la mascota existe.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil || p.OwnerUserID != claims.UserID {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		dec := json.NewDecoder(r.Body)

		// Para soportar "age": null necesitamos saber si el campo vino.
		// Estrategia: map crudo primero, struct después (igual que el
		// PATCH de perfil en el MVP anterior).
		var raw map[string]json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var req updatePetRequest
		{
			b, _ := json.Marshal(raw)
			if err := json.Unmarshal(b, &req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		age := PatchAge{}
		if v, exists := raw["age"]; exists {
			age.Present = true
			if string(v) != "null" {
				var n int
				if err := json.Unmarshal(v, &n); err != nil {
					http.Error(w, "age must be a number or null", http.StatusBadRequest)
					return
				}
				age.Value = &n
			}
		}

		updated, err := svc.Update(r.Context(), chi.URLParam(r, "petID"), claims.UserID, UpdateInput{
			Name:    req.Name,
			Species: req.Species,
			Breed:   req.Breed,
			Sex:     req.Sex,
			Age:     age,
			Notes:   req.Notes,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "pet not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(updated))
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:          p.ID,
		OwnerUserID: p.OwnerUserID,
		Name:        p.Name,
		Species:     p.Species,
		Breed:       p.Breed,
		Sex:         p.Sex,
		Age:         p.Age,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
