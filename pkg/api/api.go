// Package api exposes the customer and order services over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"deliveryflow/pkg/customer"
	"deliveryflow/pkg/fault"
	"deliveryflow/pkg/logger"
	"deliveryflow/pkg/order"
	"deliveryflow/pkg/otel"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves the HTTP API.
type Handler struct {
	customers *customer.Service
	orders    *order.Service
	db        Pinger
	log       *logger.Logger
	tracer    trace.Tracer
}

// NewHandler creates the API handler. db may be nil when no database backs
// the services; tracer may be nil to disable spans.
func NewHandler(customers *customer.Service, orders *order.Service, db Pinger, log *logger.Logger, tracer trace.Tracer) *Handler {
	return &Handler{customers: customers, orders: orders, db: db, log: log, tracer: tracer}
}

// Routes builds the router with its middleware chain.
func (h *Handler) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RequestID, h.logRequests, middleware.Recoverer, h.traceMiddleware)

	r.HandleFunc("/health", h.health).Methods(http.MethodGet)

	c := r.PathPrefix("/customers").Subrouter()
	c.HandleFunc("", h.listCustomers).Methods(http.MethodGet)
	c.HandleFunc("", h.createCustomer).Methods(http.MethodPost)
	c.HandleFunc("/{id}", h.getCustomer).Methods(http.MethodGet)
	c.HandleFunc("/{id}", h.updateCustomer).Methods(http.MethodPut)
	c.HandleFunc("/{id}", h.deleteCustomer).Methods(http.MethodDelete)

	o := r.PathPrefix("/orders").Subrouter()
	o.HandleFunc("", h.listOrders).Methods(http.MethodGet)
	o.HandleFunc("", h.createOrder).Methods(http.MethodPost)
	o.HandleFunc("/{id}", h.getOrder).Methods(http.MethodGet)
	o.HandleFunc("/{id}", h.updateOrder).Methods(http.MethodPut)
	o.HandleFunc("/{id}", h.deleteOrder).Methods(http.MethodDelete)

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "route not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})
	return r
}

// health reports service and database liveness.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} healthResponse
// @Failure 503 {object} healthResponse
// @Router /health [get]
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "health")
	defer span.End()

	if h.db != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.log.Error(ctx, "health check", "error", err)
			respondJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Database: "down"})
			return
		}
		respondJSON(w, http.StatusOK, healthResponse{Status: "ok", Database: "up"})
		return
	}
	respondJSON(w, http.StatusOK, healthResponse{Status: "ok", Database: "none"})
}

func (h *Handler) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.tracer == nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := otel.InjectTracing(r.Context(), h.tracer)
		ctx, span := otel.AddSpan(ctx, r.Method+" "+r.URL.Path)
		defer span.End()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// respondError maps an error kind to its status code.
func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}
	var fe *fault.FieldError
	if errors.As(err, &fe) {
		resp.Fields = fe.Fields
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, fault.ErrInvalidID),
		errors.Is(err, fault.ErrMissingField),
		errors.Is(err, fault.ErrInvalidField):
		status = http.StatusBadRequest
	case errors.Is(err, fault.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, fault.ErrConflict):
		status = http.StatusConflict
	default:
		h.log.Error(ctx, "request failed", "error", err)
		resp.Error = "internal error"
	}
	respondJSON(w, status, resp)
}

// decode reads a JSON body into v. A malformed body is an invalid field error
// so it maps to 400.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &fault.FieldError{Kind: fault.ErrInvalidField, Fields: []string{"body"}}
	}
	return nil
}
