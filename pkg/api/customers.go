package api

import (
	"net/http"

	"deliveryflow/pkg/customer"
	"deliveryflow/pkg/otel"

	"github.com/gorilla/mux"
)

// listCustomers lists customers.
// @Summary List customers
// @Tags customers
// @Description Lists every customer, or the one matching the optional id.
// @Produce json
// @Param id query string false "Customer ID"
// @Success 200 {array} customer.Customer
// @Failure 400 {object} errorResponse
// @Router /customers [get]
func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listCustomersHandler")
	defer span.End()

	customers, err := h.customers.List(ctx, r.URL.Query().Get("id"))
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	respondJSON(w, http.StatusOK, customers)
}

// getCustomer retrieves a customer by ID.
// @Summary Get customer
// @Tags customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} customer.Customer
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /customers/{id} [get]
func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getCustomerHandler")
	defer span.End()

	c, err := h.customers.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// createCustomer creates a new customer.
// @Summary Create customer
// @Tags customers
// @Accept json
// @Produce json
// @Param customer body customer.Input true "Customer"
// @Success 201 {object} customer.Customer
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /customers [post]
func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createCustomerHandler")
	defer span.End()

	var in customer.Input
	if err := decode(r, &in); err != nil {
		h.respondError(ctx, w, err)
		return
	}
	c, err := h.customers.Create(ctx, in)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// updateCustomer updates the supplied fields of a customer.
// @Summary Update customer
// @Tags customers
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param customer body customer.Input true "Fields to change"
// @Success 200 {object} customer.Customer
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /customers/{id} [put]
func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateCustomerHandler")
	defer span.End()

	var in customer.Input
	if err := decode(r, &in); err != nil {
		h.respondError(ctx, w, err)
		return
	}
	c, err := h.customers.Update(ctx, mux.Vars(r)["id"], in)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// deleteCustomer removes a customer without orders.
// @Summary Delete customer
// @Tags customers
// @Param id path string true "Customer ID"
// @Success 204
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /customers/{id} [delete]
func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "deleteCustomerHandler")
	defer span.End()

	if err := h.customers.Delete(ctx, mux.Vars(r)["id"]); err != nil {
		h.respondError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
