package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vet-appointments/internal/router"
)

func TestHTTP_EndToEnd_BookingFlow(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	ownerID := "owner-1"
	adminID := "admin-1"
	date := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")

	// 1) Admin registra un veterinario
	vetID := createVet(t, ts.URL, adminID, map[string]any{
		"name":           "Ana",
		"specialization": "surgery",
	})

	// 2) Owner registra su mascota
	petID := createPet(t, ts.URL, ownerID, map[string]any{
		"name":    "Milo",
		"species": "dog",
		"sex":     "male",
	})

	// 3) Con un vet y sin turnos, los 24 slots están abiertos
	{
		st, body := doReq(t, ts.URL, "GET", "/appointments/slots/"+date, ownerID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 slots, got %d body=%s", st, string(body))
		}
		var resp struct {
			Total int `json:"total_available_slots"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Total != 24 {
			t.Fatalf("expected 24 open slots, got %d", resp.Total)
		}
	}

	// 4) Owner reserva
	var apptID string
	{
		st, body := doReq(t, ts.URL, "POST", "/appointments", ownerID, "", map[string]any{
			"pet_id":         petID,
			"date":           date,
			"time":           "09:00",
			"payment_method": "pay_later",
			"reason":         "checkup",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 book, got %d body=%s", st, string(body))
		}
		var resp struct {
			ID     string `json:"id"`
			VetID  string `json:"vet_id"`
			Status string `json:"status"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.ID == "" || resp.VetID != vetID || resp.Status != "scheduled" {
			t.Fatalf("unexpected booking response: %s", string(body))
		}
		apptID = resp.ID
	}

	// 5) El slot 09:00 se cerró (único vet ocupado)
	{
		st, body := doReq(t, ts.URL, "GET", "/appointments/slots/"+date, ownerID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 slots, got %d", st)
		}
		var resp struct {
			Slots []string `json:"available_slots"`
			Total int      `json:"total_available_slots"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Total != 23 {
			t.Fatalf("expected 23 open slots after booking, got %d body=%s", resp.Total, string(body))
		}
		for _, s := range resp.Slots {
			if s == "09:00" {
				t.Fatalf("expected 09:00 to be closed")
			}
		}
	}

	// 6) Otra reserva al mismo slot: capacidad agotada => 409
	{
		st, body := doReq(t, ts.URL, "POST", "/appointments", ownerID, "", map[string]any{
			"pet_id":         petID,
			"date":           date,
			"time":           "09:00",
			"payment_method": "pay_now",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 for full slot, got %d body=%s", st, string(body))
		}
	}

	// 7) Otro usuario no ve el turno (404, no 403)
	{
		st, _ := doReq(t, ts.URL, "GET", "/appointments/"+apptID, "owner-2", "", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for foreign appointment, got %d", st)
		}
	}

	// 8) Cancelar libera el slot
	{
		st, body := doReq(t, ts.URL, "DELETE", "/appointments/"+apptID, ownerID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 cancel, got %d body=%s", st, string(body))
		}

		st, body = doReq(t, ts.URL, "GET", "/appointments/slots/"+date, ownerID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 slots, got %d", st)
		}
		var resp struct {
			Total int `json:"total_available_slots"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Total != 24 {
			t.Fatalf("expected all slots open after cancel, got %d", resp.Total)
		}
	}

	// 9) Re-reservar el mismo slot funciona
	{
		st, body := doReq(t, ts.URL, "POST", "/appointments", ownerID, "", map[string]any{
			"pet_id":         petID,
			"date":           date,
			"time":           "09:00",
			"payment_method": "pay_later",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 rebook, got %d body=%s", st, string(body))
		}
		var resp struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(body, &resp)
		apptID = resp.ID
	}

	// 10) Admin completa el turno; después no hay vuelta atrás
	{
		st, body := doReq(t, ts.URL, "PUT", "/admin/appointments/"+apptID+"/status", adminID, "admin", map[string]any{
			"status": "completed",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 set status, got %d body=%s", st, string(body))
		}

		st, _ = doReq(t, ts.URL, "PUT", "/admin/appointments/"+apptID+"/status", adminID, "admin", map[string]any{
			"status": "cancelled",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 leaving terminal state, got %d", st)
		}
	}

	// 11) Dashboard admin: lista filtrada + stats
	{
		st, body := doReq(t, ts.URL, "GET", "/admin/appointments?status=completed", adminID, "admin", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 admin list, got %d", st)
		}
		var items []map[string]any
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 {
			t.Fatalf("expected 1 completed appointment, got %d body=%s", len(items), string(body))
		}

		st, body = doReq(t, ts.URL, "GET", "/admin/appointments/stats", adminID, "admin", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 stats, got %d", st)
		}
		var stats struct {
			Completed int `json:"completed"`
			Cancelled int `json:"cancelled"`
		}
		_ = json.Unmarshal(body, &stats)
		if stats.Completed != 1 || stats.Cancelled != 1 {
			t.Fatalf("unexpected stats: %s", string(body))
		}
	}

	// 12) No se borra un vet con turnos; unavailable sí se puede
	{
		st, body := doReq(t, ts.URL, "DELETE", "/admin/veterinarians/"+vetID, adminID, "admin", nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 deleting vet with history, got %d body=%s", st, string(body))
		}

		st, body = doReq(t, ts.URL, "PATCH", "/admin/veterinarians/"+vetID+"/availability", adminID, "admin", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 toggle, got %d body=%s", st, string(body))
		}
	}
}

func TestHTTP_AuthBoundaries(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	// sin identidad => 401
	{
		st, _ := doReq(t, ts.URL, "GET", "/appointments", "", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without identity, got %d", st)
		}
	}

	// usuario común contra rutas admin => 403
	for _, path := range []string{"/admin/appointments", "/admin/appointments/stats", "/admin/veterinarians"} {
		st, _ := doReq(t, ts.URL, "GET", path, "owner-1", "", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for %s as plain user, got %d", path, st)
		}
	}

	// payload inválido => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/appointments", "owner-1", "", map[string]any{
			"pet_id":         "whatever",
			"date":           "11-03-2026",
			"time":           "09:00",
			"payment_method": "pay_later",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for bad date format, got %d", st)
		}
	}
}

func createVet(t *testing.T, baseURL, adminID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/admin/veterinarians", adminID, "admin", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create vet, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create vet: missing id body=%s", string(body))
	}
	return resp.ID
}

func createPet(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pets", userID, "", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create pet: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID, debugRole string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}
	if debugRole != "" {
		req.Header.Set("X-Debug-Role", debugRole)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
