package api

import (
	"net/http"

	"deliveryflow/pkg/order"
	"deliveryflow/pkg/otel"

	"github.com/gorilla/mux"
)

// listOrders lists orders.
// @Summary List orders
// @Tags orders
// @Description Lists every order, or the one matching the optional id.
// @Produce json
// @Param id query string false "Order ID"
// @Success 200 {array} order.Order
// @Failure 400 {object} errorResponse
// @Router /orders [get]
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listOrdersHandler")
	defer span.End()

	orders, err := h.orders.List(ctx, r.URL.Query().Get("id"))
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// getOrder retrieves an order by ID.
// @Summary Get order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} order.Order
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /orders/{id} [get]
func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getOrderHandler")
	defer span.End()

	o, err := h.orders.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// createOrder prices and creates a new order.
// @Summary Create order
// @Tags orders
// @Accept json
// @Produce json
// @Param order body order.Input true "Order"
// @Success 201 {object} order.Order
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /orders [post]
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createOrderHandler")
	defer span.End()

	var in order.Input
	if err := decode(r, &in); err != nil {
		h.respondError(ctx, w, err)
		return
	}
	o, err := h.orders.Create(ctx, in)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	respondJSON(w, http.StatusCreated, o)
}

// updateOrder updates the supplied fields of an order and reprices it.
// @Summary Update order
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param order body order.Input true "Fields to change"
// @Success 200 {object} order.Order
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /orders/{id} [put]
func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateOrderHandler")
	defer span.End()

	var in order.Input
	if err := decode(r, &in); err != nil {
		h.respondError(ctx, w, err)
		return
	}
	o, err := h.orders.Update(ctx, mux.Vars(r)["id"], in)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// deleteOrder removes an order and its pricing record.
// @Summary Delete order
// @Tags orders
// @Param id path string true "Order ID"
// @Success 204
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /orders/{id} [delete]
func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "deleteOrderHandler")
	defer span.End()

	if err := h.orders.Delete(ctx, mux.Vars(r)["id"]); err != nil {
		h.respondError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
