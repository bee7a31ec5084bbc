// Package httpapi is the HTTP dispatcher in front of the checkout services.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/service"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxBodyBytes = 1 << 20

type Services struct {
	Carts     *service.CartService
	Checkout  *service.CheckoutService
	Orders    *service.OrderService
	Catalog   *service.CatalogService
	Customers *service.CustomerService
}

type Handler struct {
	log     *slog.Logger
	svc     Services
	tracer  trace.Tracer
	timeout time.Duration
}

func NewHandler(log *slog.Logger, svc Services, timeout time.Duration) *Handler {
	return &Handler{
		log:     log,
		svc:     svc,
		tracer:  otel.Tracer("checkout-http"),
		timeout: timeout,
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(h.timeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(Identify)

		r.Get("/cart", h.getCart)
		r.Post("/cart/items", h.addItem)
		r.Delete("/cart/items/{itemID}", h.removeItem)

		r.Get("/contact", h.getContact)
		r.Put("/contact", h.saveContact)

		r.Post("/checkout", h.checkout)

		r.Get("/orders", h.listOrders)
		r.Get("/orders/{orderID}", h.getOrder)
		r.Post("/orders/{orderID}/cancel", h.cancelOrder)
		r.With(requireStaff).Post("/orders/{orderID}/finish", h.finishOrder)

		r.Get("/products/{productID}", h.getProduct)
		r.Group(func(r chi.Router) {
			r.Use(requireStaff)
			r.Post("/products", h.createProduct)
			r.Put("/products/{productID}/price", h.updatePrice)
			r.Post("/products/{productID}/restock", h.restock)
		})
	})

	return r
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	ctx, span, id := h.start(r, "GetCart")
	defer span.End()

	cart, err := h.svc.Carts.GetCart(ctx, id.CustomerID)
	if err != nil {
		h.fail(ctx, w, span, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartDTO(cart))
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	ctx, span, id := h.start(r, "AddToCart")
	defer span.End()

	var req addItemRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(ctx, w, span, err)
		return
	}
	if req.ProductID == "" {
		h.fail(ctx, w, span, badRequest(errors.New("product_id is empty")))
		return
	}

	span.SetAttributes(attribute.String("product_id", req.ProductID), attribute.Int("quantity", req.Quantity))

	item, err := h.svc.Carts.AddToCart(ctx, id.CustomerID, req.ProductID, req.Quantity)
	if err != nil {
		h.fail(ctx, w, span, err)
		return
	}

	respondJSON(w, http.StatusCreated, toLineItemDTOs([]domain.LineItem{item})[0])
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx, span, id := h.start(r, "RemoveFromCart")
	defer span.End()

	itemID, err := uuidParam(r, "itemID")
	if err != nil {
		h.fail(ctx, w, span, err)
		return
	}

	if err := h.svc.Carts.RemoveFromCart(ctx, id.CustomerID, itemID); err != nil {
		h.fail(ctx, w, span, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getContact(w http.ResponseWriter, r *http.Request) {
	ctx, span, id := h.start(r, "GetContact")
	defer span.End()

	contact, err := h.svc.Customers.GetContact(ctx, id.CustomerID)
	if err != nil {
		h.fail(ctx, w, span, err)
		return
	}

	respondJSON(w, http.StatusOK, toContactDTO(contact))
}

func (h *Handler) saveContact(w http.ResponseWriter, r *http.Request) {
	ctx, span, id := h.start(r, "SaveContact")
	defer span.End()

	var req contactDTO
	if err := decode(w, r, &req); err != nil {
		h.fail(ctx, w, span, err)
		return
	}

	contact := req.toDomain(id.CustomerID)
	if err := h.svc.Customers.SaveContact(ctx, contact); err != nil {
		h.fail(ctx, w, span, err)
		return
	}

	respondJSON(w, http.StatusOK, toContactDTO(contact))
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	ctx, span, id := h.start(r, "Checkout")
	defer span.End()

	order, err := h.svc.Checkout.Checkout(ctx, id.CustomerID)
	if err != nil {
		h.fail(ctx, w, span, err)
		return
	}

	span.SetAttributes(attribute.String("order_id", order.ID.String()))

	respondJSON(w, http.StatusCreated, toOrderDTO(order))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span, id := h.start(r, "ListOrders")
	defer span.End()

	orders, err := h.svc.Orders.ListOrders(ctx, id.CustomerID)
	if err != nil {
		h.fail(ctx, w, span, err)
		return
	}

	out := make([]orderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderDTO(o))
	}

	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span, id := h.start(r, "GetOrder")
	defer span.End()

	order, ok := h.ownedOrder(ctx, w, r, span, id)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, toOrderDTO(order))
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span, id := h.start(r, "CancelOrder")
	defer span.End()

	order, ok := h.ownedOrder(ctx, w, r, span, id)
	if !ok {
		return
	}

	cancelled, err := h.svc.Orders.CancelOrder(ctx, order.ID, id.CustomerID)
	if err != nil {
		h.fail(ctx, w, span, err)
		return
	}

	respondJSON(w, http.StatusOK, toOrderDTO(cancelled))
}

func (h *Handler) finishOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span, _ := h.start(r, "FinishOrder")
	defer span.End()

	orderID, err := uuidParam(r, "orderID")
	if err != nil {
		h.fail(ctx, w, span, err)
		return
	}

	span.SetAttributes(attribute.String("order_id", orderID.String()))

	finished, err := h.svc.Orders.FinishOrder(ctx, orderID)
	if err != nil {
		h.fail(ctx, w, span, err)
		return
	}

	respondJSON(w, http.StatusOK, toOrderDTO(finished))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span, _ := h.start(r, "GetProduct")
	defer span.End()

	product, err := h.svc.Catalog.GetProduct(ctx, chi.URLParam(r, "productID"))
	if err != nil {
		h.fail(ctx, w, span, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductDTO(product))
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span, _ := h.start(r, "CreateProduct")
	defer span.End()

	var req createProductRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(ctx, w, span, err)
		return
	}
	if req.ID == "" {
		h.fail(ctx, w, span, badRequest(errors.New("id is empty")))
		return
	}

	price, err := req.Price.toDomain()
	if err != nil {
		h.fail(ctx, w, span, badRequest(err))
		return
	}

	product, err := h.svc.Catalog.CreateProduct(ctx, domain.Product{
		ID:    req.ID,
		Name:  req.Name,
		Price: price,
		Stock: req.Stock,
	})
	if err != nil {
		h.fail(ctx, w, span, err)
		return
	}

	respondJSON(w, http.StatusCreated, toProductDTO(product))
}

func (h *Handler) updatePrice(w http.ResponseWriter, r *http.Request) {
	ctx, span, _ := h.start(r, "UpdatePrice")
	defer span.End()

	var req moneyDTO
	if err := decode(w, r, &req); err != nil {
		h.fail(ctx, w, span, err)
		return
	}

	price, err := req.toDomain()
	if err != nil {
		h.fail(ctx, w, span, badRequest(err))
		return
	}

	product, err := h.svc.Catalog.UpdatePrice(ctx, chi.URLParam(r, "productID"), price)
	if err != nil {
		h.fail(ctx, w, span, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductDTO(product))
}

func (h *Handler) restock(w http.ResponseWriter, r *http.Request) {
	ctx, span, _ := h.start(r, "Restock")
	defer span.End()

	var req restockRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(ctx, w, span, err)
		return
	}

	product, err := h.svc.Catalog.Restock(ctx, chi.URLParam(r, "productID"), req.Quantity)
	if err != nil {
		h.fail(ctx, w, span, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductDTO(product))
}

// ownedOrder loads the order named in the path and checks that the caller
// owns it or is staff. It writes the error response itself.
func (h *Handler) ownedOrder(ctx context.Context, w http.ResponseWriter, r *http.Request, span trace.Span, id Identity) (domain.Order, bool) {
	orderID, err := uuidParam(r, "orderID")
	if err != nil {
		h.fail(ctx, w, span, err)
		return domain.Order{}, false
	}

	span.SetAttributes(attribute.String("order_id", orderID.String()))

	order, err := h.svc.Orders.GetOrder(ctx, orderID)
	if err != nil {
		h.fail(ctx, w, span, err)
		return domain.Order{}, false
	}

	if !id.CanActOn(order.CustomerID) {
		span.SetStatus(codes.Error, "forbidden")
		respondError(w, http.StatusForbidden, "forbidden", "order belongs to another customer")
		return domain.Order{}, false
	}

	return order, true
}

func (h *Handler) start(r *http.Request, name string) (context.Context, trace.Span, Identity) {
	ctx, span := h.tracer.Start(r.Context(), name)

	id, _ := identityFrom(ctx)
	span.SetAttributes(
		attribute.String("customer_id", id.CustomerID),
		attribute.String("role", string(id.Role)),
	)

	return ctx, span, id
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, span trace.Span, err error) {
	status, code := statusFor(err)

	span.RecordError(err)
	span.SetStatus(codes.Error, code)

	if status >= http.StatusInternalServerError {
		h.log.ErrorContext(ctx, "request failed",
			slog.String("code", code),
			slog.String("request_id", middleware.GetReqID(ctx)),
			slog.Any("error", err))
		respondError(w, status, code, http.StatusText(status))
		return
	}

	respondError(w, status, code, err.Error())
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return badRequest(fmt.Errorf("invalid JSON body: %w", err))
	}
	return nil
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, badRequest(fmt.Errorf("%s: %w", name, err))
	}
	return id, nil
}
