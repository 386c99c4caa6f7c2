package web

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"recruit/internal/adapters/captcha"
	"recruit/internal/application/orchestrators"
	"recruit/internal/application/ratelimit"
	"recruit/internal/domain/application"
	"recruit/internal/domain/export"
)

// generateToken creates the short random suffix for application ids.
func generateToken() string {
	return strings.SplitN(uuid.New().String(), "-", 2)[0]
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError maps domain errors to HTTP statuses.
func respondError(w http.ResponseWriter, err error) {
	var ve *application.ValidationError
	var rle *ratelimit.RateLimitError
	switch {
	case errors.As(err, &ve):
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed: " + strings.Join(sortedFieldNames(ve), ", "),
			"fields": ve.Fields,
		})
	case errors.As(err, &rle):
		w.Header().Set("Retry-After", fmt.Sprintf("%d", rle.RetryAfter))
		respondJSON(w, http.StatusTooManyRequests, map[string]any{
			"error":      "too many requests",
			"retryAfter": rle.RetryAfter,
		})
	case errors.Is(err, application.ErrInvalidTrack):
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, application.ErrNotFound):
		respondJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, application.ErrReadOnly):
		respondJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case isChallengeError(err):
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "captcha verification failed"})
	default:
		internalError(w, err)
	}
}

func sortedFieldNames(ve *application.ValidationError) []string {
	names := make([]string, 0, len(ve.Fields))
	for f := range ve.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}

func isChallengeError(err error) bool {
	return errors.Is(err, captcha.ErrMissingToken) || errors.Is(err, captcha.ErrVerificationFailed)
}

// requireAdmin gates admin routes on the x-admin-token header.
// POST: false means a response was already written
func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if deps.AdminToken == "" {
		slog.Error("admin_access_unconfigured", "path", r.URL.Path)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "admin access is not configured"})
		return false
	}
	token := r.Header.Get("x-admin-token")
	if subtle.ConstantTimeCompare([]byte(token), []byte(deps.AdminToken)) != 1 {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return false
	}
	return true
}

// clientIP extracts the submitter address, preferring the proxy header.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// handleApplications handles POST (submit), GET (admin list), and DELETE
// (admin clear) for /applications.
func handleApplications(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "POST":
		handleSubmitApplication(w, r)
	case "GET":
		handleListApplications(w, r)
	case "DELETE":
		handleDeleteAllApplications(w, r)
	default:
		respondJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

type submitRequest struct {
	Track        string               `json:"track"`
	FormData     application.FormData `json:"formData"`
	CaptchaToken string               `json:"captchaToken"`

	// TurnstileToken is accepted as an alias for clients that send the
	// provider-specific key.
	TurnstileToken string `json:"turnstileToken,omitempty"`
}

func (r submitRequest) token() string {
	if r.CaptchaToken != "" {
		return r.CaptchaToken
	}
	return r.TurnstileToken
}

func handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := strictDecode(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	app, err := orchestrators.ExecuteSubmitApplication(r.Context(), orchestrators.SubmitApplicationInput{
		Track:        req.Track,
		Form:         req.FormData,
		CaptchaToken: req.token(),
		IPAddress:    clientIP(r),
	}, orchestrators.SubmitApplicationDeps{
		Store:         deps.ApplicationStore,
		Limiter:       deps.Limiter,
		Verifier:      deps.Verifier,
		Sealer:        deps.Sealer,
		EmailSender:   deps.EmailSender,
		NotifyTo:      deps.NotifyTo,
		FromAddress:   deps.FromAddress,
		ReplyTo:       deps.ReplyTo,
		GenerateToken: deps.GenerateToken,
		Now:           deps.Now,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"success":       true,
		"applicationId": app.ID,
		"track":         app.Track,
		"submittedAt":   app.SubmittedAt,
	})
}

func handleListApplications(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	apps, err := orchestrators.ExecuteListApplications(r.Context(), orchestrators.ListApplicationsInput{
		Track: r.URL.Query().Get("track"),
	}, orchestrators.ListApplicationsDeps{Store: deps.ApplicationStore, Sealer: deps.Sealer})
	if err != nil {
		respondError(w, err)
		return
	}
	if apps == nil {
		apps = []application.Application{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"applications": apps,
		"count":        len(apps),
	})
}

func handleDeleteAllApplications(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	result, err := orchestrators.ExecuteDeleteAllApplications(r.Context(),
		orchestrators.DeleteApplicationDeps{Store: deps.ApplicationStore})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// handleApplicationByID handles GET, DELETE, and the rejected mutation verbs
// for /applications/{id}. The route prefix is already stripped.
func handleApplicationByID(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Path
	if id == "" || strings.Contains(id, "/") {
		handleAPINotFound(w, r)
		return
	}

	switch r.Method {
	case "GET":
		if !requireAdmin(w, r) {
			return
		}
		app, err := orchestrators.ExecuteGetApplication(r.Context(), id,
			orchestrators.GetApplicationDeps{Store: deps.ApplicationStore, Sealer: deps.Sealer})
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, app)
	case "DELETE":
		if !requireAdmin(w, r) {
			return
		}
		err := orchestrators.ExecuteDeleteApplication(r.Context(),
			orchestrators.DeleteApplicationInput{ID: id},
			orchestrators.DeleteApplicationDeps{Store: deps.ApplicationStore})
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"deleted": id})
	case "PUT", "PATCH":
		// Submitted applications are immutable.
		respondError(w, application.ErrReadOnly)
	default:
		respondJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

// handleExportApplications streams every application as CSV.
func handleExportApplications(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		respondJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if !requireAdmin(w, r) {
		return
	}

	apps, err := orchestrators.ExecuteListApplications(r.Context(), orchestrators.ListApplicationsInput{
		Track: r.URL.Query().Get("track"),
	}, orchestrators.ListApplicationsDeps{Store: deps.ApplicationStore, Sealer: deps.Sealer})
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="applications.csv"`)
	if err := export.WriteCSV(w, apps); err != nil {
		slog.Error("csv_export_failed", "error", err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"path":      r.URL.Path,
		"timestamp": deps.Now().UTC().Format(time.RFC3339),
	})
}

func handleAPINotFound(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusNotFound, map[string]string{
		"error": "not found",
		"path":  r.URL.Path,
	})
}
