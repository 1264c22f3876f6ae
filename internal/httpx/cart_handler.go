package httpx

import (
	"net/http"
	"strconv"

	"github.com/ariefcatur/go-warung-pos/internal/cart"
	"github.com/go-chi/chi/v5"
)

type cartResponse struct {
	Items []cart.Item `json:"items"`
	Total int         `json:"total"`
}

func toCartResponse(c *cart.Cart) cartResponse {
	items := c.Items
	if items == nil {
		items = []cart.Item{}
	}
	return cartResponse{Items: items, Total: c.Total()}
}

func session(w http.ResponseWriter, r *http.Request) (string, bool) {
	s := r.Header.Get(headerCartSession)
	if s == "" {
		writeMsg(w, http.StatusBadRequest, headerCartSession+" header is required")
		return "", false
	}
	return s, true
}

func itemIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid item index")
		return 0, false
	}
	return i, true
}

// withCart applies fn to the session cart as one atomic read-modify-write,
// so concurrent requests on the same session never drop each other's changes.
func (a *API) withCart(w http.ResponseWriter, r *http.Request, fn func(c *cart.Cart) error) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	c, err := a.Carts.Update(r.Context(), sess, fn)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

func (a *API) getCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	c, err := a.Carts.Load(r.Context(), sess)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

type addItemInput struct {
	ProductID string `json:"productId"`
	Variant   string `json:"variant"`
	Note      string `json:"note"`
}

func (a *API) addCartItem(w http.ResponseWriter, r *http.Request) {
	var in addItemInput
	if !decode(w, r, &in) {
		return
	}
	p, err := a.Menu.Get(r.Context(), in.ProductID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if !p.IsAvailable {
		writeMsg(w, http.StatusBadRequest, p.Name+" is not available")
		return
	}
	price, err := p.UnitPrice(in.Variant)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.withCart(w, r, func(c *cart.Cart) error {
		c.Add(p, in.Variant, in.Note, price)
		return nil
	})
}

type quantityInput struct {
	Delta int `json:"delta"`
}

func (a *API) changeCartQuantity(w http.ResponseWriter, r *http.Request) {
	i, ok := itemIndex(w, r)
	if !ok {
		return
	}
	var in quantityInput
	if !decode(w, r, &in) {
		return
	}
	a.withCart(w, r, func(c *cart.Cart) error { return c.UpdateQuantity(i, in.Delta) })
}

// updateCartItem re-resolves the unit price from the menu when only the variant changes.
func (a *API) updateCartItem(w http.ResponseWriter, r *http.Request) {
	i, ok := itemIndex(w, r)
	if !ok {
		return
	}
	var patch cart.ItemPatch
	if !decode(w, r, &patch) {
		return
	}
	a.withCart(w, r, func(c *cart.Cart) error {
		patch := patch
		if i < 0 || i >= len(c.Items) {
			return cart.ErrItemNotFound
		}
		if patch.Variant != nil && patch.Price == nil {
			p, err := a.Menu.Get(r.Context(), c.Items[i].ProductID)
			if err != nil {
				return err
			}
			price, err := p.UnitPrice(*patch.Variant)
			if err != nil {
				return err
			}
			patch.Price = &price
		}
		return c.UpdateDetails(i, patch)
	})
}

func (a *API) removeCartItem(w http.ResponseWriter, r *http.Request) {
	i, ok := itemIndex(w, r)
	if !ok {
		return
	}
	a.withCart(w, r, func(c *cart.Cart) error { return c.Remove(i) })
}

func (a *API) clearCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	if err := a.Carts.Clear(r.Context(), sess); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(&cart.Cart{}))
}
