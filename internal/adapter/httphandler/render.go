package httphandler

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/zzzuuusurp/faux-cart-copy/internal/core/port"
)

const cartPageText = `<!DOCTYPE html>
<html>
<head><title>Cart</title></head>
<body>
<div id="cart">
{{- if not .Items}}
	<h3>Your cart is empty</h3>
{{- else}}
{{- range $i, $item := .Items}}
	<div class="cartItem">
		<img src="{{$item.ImgSrc}}" alt="{{$item.Name}}">
		<div class="cartItemInfo">
			<h3>{{$item.Name}}</h3>
			<p>{{$item.Desc}}</p>
			<div class="cartItemPricing">
				<p>Price: {{formatCurrency $item.Price}}</p>
				<p>Quantity: {{$item.Qty}}</p>
				<p>Subtotal: {{formatCurrency $item.Subtotal}}</p>
			</div>
		</div>
	</div>
{{- end}}
	<div class="cartTotal">
		<h3>Total: {{.TotalFormatted}}</h3>
		<p id="cartItemCount">{{.ItemCount}}</p>
	</div>
{{- end}}
</div>
</body>
</html>
`

var cartPage = template.Must(
	template.New("cart").
		Funcs(template.FuncMap{"formatCurrency": FormatCurrency}).
		Parse(cartPageText),
)

// A CartPageHandler renders the server-side HTML cart view.
type CartPageHandler struct {
	keeper port.CartKeeper
	page   *template.Template
}

func RegisterCartPage(mux *http.ServeMux, keeper port.CartKeeper) {
	h := CartPageHandler{keeper, cartPage}
	mux.HandleFunc("GET /cart", h.GetCartPage)
}

func (h CartPageHandler) GetCartPage(w http.ResponseWriter, r *http.Request) {
	const op = "CartPageHandler.GetCartPage"
	log := slog.With("op", op)

	if h.page == nil {
		http.Error(w, "render target missing", http.StatusNotFound)
		log.Error("cart page template is absent")
		return
	}

	view := makeCartView(h.keeper.Items(r.Context()))

	var buf bytes.Buffer
	if err := h.page.Execute(&buf, view); err != nil {
		http.Error(w, "failed to render cart", http.StatusInternalServerError)
		log.Error("failed to render cart", "err", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}
