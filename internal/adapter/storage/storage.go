package storage

import (
	"encoding/json"

	"github.com/zzzuuusurp/faux-cart-copy/internal/core/domain"
)

// Persisted record layout, one per shop identifier:
// {"cart":[{"name":...,"desc":...,"price":...,"imgSrc":...,"qty":...}]}
type (
	cartRecord struct {
		Cart []cartItemRecord `json:"cart"`
	}

	cartItemRecord struct {
		Name   string  `json:"name"`
		Desc   string  `json:"desc"`
		Price  float64 `json:"price"`
		ImgSrc string  `json:"imgSrc"`
		Qty    int     `json:"qty"`
	}
)

func encodeCart(c domain.Cart) ([]byte, error) {
	rec := cartRecord{Cart: make([]cartItemRecord, 0, len(c.Items))}
	for _, v := range c.Items {
		rec.Cart = append(rec.Cart, cartItemRecord{
			Name:   v.Name,
			Desc:   v.Desc,
			Price:  v.Price,
			ImgSrc: v.ImgSrc,
			Qty:    v.Qty,
		})
	}
	return json.Marshal(rec)
}

func decodeCart(data []byte) (domain.Cart, error) {
	var rec cartRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.Cart{}, err
	}

	var c domain.Cart
	for _, v := range rec.Cart {
		c.Items = append(c.Items, domain.CartItem{
			Name:   v.Name,
			Desc:   v.Desc,
			Price:  v.Price,
			ImgSrc: v.ImgSrc,
			Qty:    v.Qty,
		})
	}
	return c, nil
}
