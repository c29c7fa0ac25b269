package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/zzzuuusurp/faux-cart-copy/internal/core/domain"
	"github.com/zzzuuusurp/faux-cart-copy/internal/core/port"
)

// POST v1/cart/items JSON candidate (201 Created, 400, 422)
// GET v1/cart (200 OK), GET v1/cart/totals (200 OK)
// POST v1/cart/items/{index}/increase|decrease (200 OK, 400, 422)
// DELETE v1/cart/items/{index} (200 OK, 400, 422)
// DELETE v1/cart/items/name/{name} (200 OK, 404)
// DELETE v1/cart (200 OK)

type CartHandler struct {
	keeper port.CartKeeper
}

func RegisterCart(mux *http.ServeMux, keeper port.CartKeeper) {
	h := CartHandler{keeper}
	mux.HandleFunc("GET /v1/cart", h.GetCart)
	mux.HandleFunc("GET /v1/cart/totals", h.GetTotals)
	mux.HandleFunc("POST /v1/cart/items", h.PostItem)
	mux.HandleFunc("POST /v1/cart/items/{index}/increase", h.IncreaseItem)
	mux.HandleFunc("POST /v1/cart/items/{index}/decrease", h.DecreaseItem)
	mux.HandleFunc("DELETE /v1/cart/items/{index}", h.DeleteItem)
	mux.HandleFunc("DELETE /v1/cart/items/name/{name}", h.DeleteItemByName)
	mux.HandleFunc("DELETE /v1/cart", h.ClearCart)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w, h.keeper.Items(r.Context()), http.StatusOK)
}

func (h CartHandler) GetTotals(w http.ResponseWriter, r *http.Request) {
	t := h.keeper.Totals(r.Context())
	writeJSON(w, TotalsView{
		Total:          t.Total,
		TotalFormatted: FormatCurrency(t.Total),
		ItemCount:      t.ItemCount,
	}, http.StatusOK)
}

func (h CartHandler) PostItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostItem"
	log := slog.With("op", op)

	var body CandidateBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	price, err := ParsePrice(body.Price)
	if err != nil {
		http.Error(w, "invalid candidate", http.StatusUnprocessableEntity)
		log.Warn("failed to parse price", "err", err)
		return
	}

	items, err := h.keeper.AddOrMerge(r.Context(), domain.Candidate{
		Name:   body.Name,
		Desc:   body.Desc,
		Price:  price,
		ImgSrc: body.ImgSrc,
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			http.Error(w, "invalid candidate", http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "failed to add item", http.StatusInternalServerError)
		log.Error("failed to add item", "err", err)
		return
	}

	h.writeCart(w, items, http.StatusCreated)
	log.Info("added", "name", body.Name)
}

func (h CartHandler) IncreaseItem(w http.ResponseWriter, r *http.Request) {
	h.mutateAt(w, r, "CartHandler.IncreaseItem", h.keeper.Increase)
}

func (h CartHandler) DecreaseItem(w http.ResponseWriter, r *http.Request) {
	h.mutateAt(w, r, "CartHandler.DecreaseItem", h.keeper.Decrease)
}

func (h CartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	h.mutateAt(w, r, "CartHandler.DeleteItem", h.keeper.Remove)
}

func (h CartHandler) DeleteItemByName(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteItemByName"
	log := slog.With("op", op)

	name := r.PathValue("name")
	items, err := h.keeper.RemoveByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownName) {
			http.Error(w, "no such item", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to remove item", http.StatusInternalServerError)
		log.Error("failed to remove item", "err", err)
		return
	}

	h.writeCart(w, items, http.StatusOK)
}

func (h CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.ClearCart"
	log := slog.With("op", op)

	items, err := h.keeper.Clear(r.Context())
	if err != nil {
		http.Error(w, "failed to clear cart", http.StatusInternalServerError)
		log.Error("failed to clear cart", "err", err)
		return
	}

	h.writeCart(w, items, http.StatusOK)
}

type mutateAtFn func(ctx context.Context, index int) ([]domain.CartItem, error)

func (h CartHandler) mutateAt(
	w http.ResponseWriter, r *http.Request, op string, fn mutateAtFn,
) {
	log := slog.With("op", op)

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "index is not an integer", http.StatusBadRequest)
		log.Warn("failed to parse index", "err", err)
		return
	}

	items, err := fn(r.Context(), index)
	if err != nil {
		if errors.Is(err, domain.ErrIndexRange) {
			http.Error(w, "index out of range", http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "failed to update item", http.StatusInternalServerError)
		log.Error("failed to update item", "err", err)
		return
	}

	h.writeCart(w, items, http.StatusOK)
}

// writeCart renders the snapshot the caller must re-render from
// after every successful mutation.
func (h CartHandler) writeCart(
	w http.ResponseWriter, items []domain.CartItem, status int,
) {
	writeJSON(w, makeCartView(items), status)
}

func makeCartView(items []domain.CartItem) CartView {
	view := CartView{Items: make([]CartItemView, 0, len(items))}
	for _, v := range items {
		subtotal := v.Price * float64(v.Qty)
		view.Items = append(view.Items, CartItemView{
			Name:     v.Name,
			Desc:     v.Desc,
			Price:    v.Price,
			ImgSrc:   v.ImgSrc,
			Qty:      v.Qty,
			Subtotal: subtotal,
		})
		view.Total += subtotal
		view.ItemCount += v.Qty
	}
	view.TotalFormatted = FormatCurrency(view.Total)
	return view
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	const op = "writeJSON"

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body", "op", op, "err", err)
	}
}

type ActivityHandler struct {
	reader port.ProductActivityReader
}

func RegisterActivity(mux *http.ServeMux, reader port.ProductActivityReader) {
	h := ActivityHandler{reader}
	mux.HandleFunc("GET /v1/activity/{product}", h.GetActivity)
}

func (h ActivityHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	const op = "ActivityHandler.GetActivity"
	log := slog.With("op", op)

	product := r.PathValue("product")
	n, err := h.reader.Additions(product)
	if err != nil {
		if errors.Is(err, port.ErrActivityNotFound) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Error(w, "failed to read activity", http.StatusInternalServerError)
		log.Error("failed to read activity", "err", err)
		return
	}

	writeJSON(w, ActivityView{ProductName: product, Additions: n}, http.StatusOK)
}
