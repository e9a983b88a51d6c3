package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sheikh-saqib/funds-transfer-core/internal/models"
)

const maxBodyBytes = 1 << 20

// TransferService is the part of the ledger the HTTP view calls into.
type TransferService interface {
	ValidateDestination(ctx context.Context, destinationNumber, userID string) (models.DestinationProfile, error)
	Transfer(ctx context.Context, req models.TransferRequest, userID string) (models.TransferResult, error)
	ListAccounts(ctx context.Context, userID string) ([]models.Account, error)
}

type Handler struct {
	svc    TransferService
	logger *slog.Logger
}

// NewRouter wires the transfer routes. The caller identity comes from the
// path; authenticating it is left to whatever sits in front of this server.
func NewRouter(svc TransferService, logger *slog.Logger) http.Handler {
	h := &Handler{svc: svc, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", h.Health)
	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/accounts", h.ListAccounts)
		r.Get("/destinations/{number}", h.ValidateDestination)
		r.Post("/transfers", h.Transfer)
	})
	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.ListAccounts(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"accounts": accounts})
}

func (h *Handler) ValidateDestination(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.ValidateDestination(r.Context(), chi.URLParam(r, "number"), chi.URLParam(r, "userID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, destinationResponse{
		Profile: profile,
		Message: destinationMessage(profile),
	})
}

func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req models.TransferRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorBody{
			Code:    "invalid_body",
			Message: "The request body is not valid.",
		}})
		return
	}

	res, err := h.svc.Transfer(r.Context(), req, chi.URLParam(r, "userID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := transferResponse{
		Transfer: res,
		Message:  transferMessage(res),
	}
	if res.Warning != nil {
		out.Warning = contactWarningMessage
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	v := describe(err)
	if v.status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
	}
	writeJSON(w, v.status, errorResponse{Error: errorBody{
		Code:      v.code,
		Message:   v.message,
		Retryable: v.retryable,
	}})
}

type destinationResponse struct {
	Profile models.DestinationProfile `json:"profile"`
	Message string                    `json:"message"`
}

type transferResponse struct {
	Transfer models.TransferResult `json:"transfer"`
	Message  string                `json:"message"`
	Warning  string                `json:"warning,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
