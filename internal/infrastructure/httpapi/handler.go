package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	appcatalog "ibook/internal/application/catalog"
	"ibook/internal/domain/inventory"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the catalog operations over JSON HTTP. Products are
// addressed by their weak identity (name + category) and items by their
// expiry date within a product.
type Handler struct {
	service *appcatalog.Service
}

func NewHandler(service *appcatalog.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.handleHealth)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.handleListProducts)
		r.Post("/", h.handleAddProduct)

		r.Route("/{name}/{category}", func(r chi.Router) {
			r.Get("/", h.handleGetProduct)
			r.Put("/", h.handleUpdateProduct)
			r.Delete("/", h.handleRemoveProduct)

			r.Post("/items", h.handleAddItem)
			r.Route("/items/{expiry}", func(r chi.Router) {
				r.Put("/", h.handleSetItemCount)
				r.Delete("/", h.handleRemoveItem)
				r.Post("/increment", h.handleIncrementItem)
				r.Post("/decrement", h.handleDecrementItem)
			})
		})
	})

	r.Get("/reports/expired", h.handleExpiredItems)

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListProducts(r.Context(), appcatalog.ListFilter{
		Name:     r.URL.Query().Get("name"),
		Category: r.URL.Query().Get("category"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": views})
}

type addProductRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

func (h *Handler) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	var req addProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	view, err := h.service.AddProduct(r.Context(), appcatalog.AddProductInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	ref, err := productRef(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	view, err := h.service.GetProduct(r.Context(), ref)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	ref, err := productRef(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req updateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	view, err := h.service.UpdateProduct(r.Context(), appcatalog.UpdateProductInput{
		Name:           ref.Name,
		Category:       ref.Category,
		NewName:        req.Name,
		NewCategory:    req.Category,
		NewDescription: req.Description,
		NewPrice:       req.Price,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleRemoveProduct(w http.ResponseWriter, r *http.Request) {
	ref, err := productRef(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.service.RemoveProduct(r.Context(), ref); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addItemRequest struct {
	ExpiryDate string `json:"expiry_date"`
	Quantity   int    `json:"quantity"`
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	ref, err := productRef(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	view, err := h.service.AddItem(r.Context(), appcatalog.AddItemInput{
		Name:       ref.Name,
		Category:   ref.Category,
		ExpiryDate: req.ExpiryDate,
		Quantity:   req.Quantity,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

type setItemCountRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) handleSetItemCount(w http.ResponseWriter, r *http.Request) {
	ref, expiry, err := itemRef(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req setItemCountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	view, err := h.service.SetItemCount(r.Context(), appcatalog.SetItemCountInput{
		Name:       ref.Name,
		Category:   ref.Category,
		ExpiryDate: expiry,
		Quantity:   req.Quantity,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	ref, expiry, err := itemRef(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.service.RemoveItem(r.Context(), appcatalog.ItemRef{
		Name:       ref.Name,
		Category:   ref.Category,
		ExpiryDate: expiry,
	}); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type adjustItemRequest struct {
	Delta int `json:"delta"`
}

func (h *Handler) handleIncrementItem(w http.ResponseWriter, r *http.Request) {
	h.handleAdjustItem(w, r, h.service.IncrementItem)
}

func (h *Handler) handleDecrementItem(w http.ResponseWriter, r *http.Request) {
	h.handleAdjustItem(w, r, h.service.DecrementItem)
}

func (h *Handler) handleAdjustItem(
	w http.ResponseWriter,
	r *http.Request,
	adjust func(ctx context.Context, input appcatalog.AdjustItemInput) (*appcatalog.ProductView, error),
) {
	ref, expiry, err := itemRef(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req adjustItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	view, err := adjust(r.Context(), appcatalog.AdjustItemInput{
		Name:       ref.Name,
		Category:   ref.Category,
		ExpiryDate: expiry,
		Delta:      req.Delta,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleExpiredItems(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ExpiredItems(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if rows == nil {
		rows = []appcatalog.ExpiredItemView{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"expired": rows})
}

func productRef(r *http.Request) (appcatalog.ProductRef, error) {
	name, err := pathParam(r, "name")
	if err != nil {
		return appcatalog.ProductRef{}, err
	}
	category, err := pathParam(r, "category")
	if err != nil {
		return appcatalog.ProductRef{}, err
	}
	return appcatalog.ProductRef{Name: name, Category: category}, nil
}

func itemRef(r *http.Request) (appcatalog.ProductRef, string, error) {
	ref, err := productRef(r)
	if err != nil {
		return appcatalog.ProductRef{}, "", err
	}
	expiry, err := pathParam(r, "expiry")
	if err != nil {
		return appcatalog.ProductRef{}, "", err
	}
	return ref, expiry, nil
}

// pathParam unescapes a chi URL parameter, so names with spaces survive
// the round trip through the path.
func pathParam(r *http.Request, key string) (string, error) {
	raw := chi.URLParam(r, key)
	value, err := url.PathUnescape(raw)
	if err != nil {
		return "", err
	}
	return value, nil
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, inventory.ErrDuplicate):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, inventory.ErrValidation),
		errors.Is(err, inventory.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}
