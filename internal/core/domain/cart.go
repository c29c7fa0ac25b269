package domain

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	ErrValidation  = errors.New("invalid candidate")
	ErrIndexRange  = errors.New("index out of range")
	ErrUnknownName = errors.New("no item with given name")
)

type (
	// A CartItem is one line entry of the cart.
	//
	// Name is the unique key within the cart. Price, Desc and ImgSrc are
	// fixed when the line is created and never re-derived afterwards.
	CartItem struct {
		Name   string
		Desc   string
		Price  float64
		ImgSrc string
		Qty    int
	}

	// A Candidate is unvalidated product data submitted for adding.
	Candidate struct {
		Name   string
		Desc   string
		Price  float64
		ImgSrc string
	}

	Totals struct {
		Total     float64
		ItemCount int
	}
)

// Validate reports whether the candidate may become a cart line.
func (c Candidate) Validate() error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, errors.New("name is empty"))
	}
	if c.Desc == "" {
		errs = append(errs, errors.New("desc is empty"))
	}
	if c.ImgSrc == "" {
		errs = append(errs, errors.New("imgSrc is empty"))
	}
	if math.IsNaN(c.Price) || math.IsInf(c.Price, 0) || c.Price < 0 {
		errs = append(errs, fmt.Errorf("price is not a non-negative number: %v", c.Price))
	}
	if len(errs) != 0 {
		return fmt.Errorf("%w: %w", ErrValidation, errors.Join(errs...))
	}
	return nil
}

// A Cart is the ordered sequence of line entries for one shop.
//
// Item names are distinct within the sequence and every quantity is >= 1.
type Cart struct {
	Items []CartItem
}

// AddOrMerge bumps the quantity of the existing line with the candidate's
// name, or appends a new line with quantity 1. On merge the first-seen
// price, description and image win.
func (c *Cart) AddOrMerge(v Candidate) {
	for i := range c.Items {
		if c.Items[i].Name == v.Name {
			c.Items[i].Qty++
			return
		}
	}
	c.Items = append(c.Items, CartItem{
		Name:   v.Name,
		Desc:   v.Desc,
		Price:  v.Price,
		ImgSrc: v.ImgSrc,
		Qty:    1,
	})
}

// Increase adds one unit to the line at index i.
func (c *Cart) Increase(i int) error {
	if !c.inRange(i) {
		return c.rangeErr(i)
	}
	c.Items[i].Qty++
	return nil
}

// Decrease removes one unit from the line at index i.
// A line at quantity 1 is removed entirely, never kept at quantity 0.
func (c *Cart) Decrease(i int) error {
	if !c.inRange(i) {
		return c.rangeErr(i)
	}
	if c.Items[i].Qty > 1 {
		c.Items[i].Qty--
		return nil
	}
	c.Items = slices.Delete(c.Items, i, i+1)
	return nil
}

// Remove deletes the line at index i unconditionally.
func (c *Cart) Remove(i int) error {
	if !c.inRange(i) {
		return c.rangeErr(i)
	}
	c.Items = slices.Delete(c.Items, i, i+1)
	return nil
}

// IndexOf returns the position of the line with the given name,
// or -1 when absent. Names are compared case-sensitively.
func (c Cart) IndexOf(name string) int {
	return slices.IndexFunc(c.Items, func(v CartItem) bool {
		return v.Name == name
	})
}

// Clear resets the cart to the empty sequence.
func (c *Cart) Clear() {
	c.Items = nil
}

// Totals sums price*qty and qty over all lines. Empty cart yields (0, 0).
func (c Cart) Totals() (t Totals) {
	for _, v := range c.Items {
		t.Total += v.Price * float64(v.Qty)
		t.ItemCount += v.Qty
	}
	return
}

// Clone returns a deep copy, safe to mutate independently.
func (c Cart) Clone() Cart {
	return Cart{Items: slices.Clone(c.Items)}
}

func (c Cart) inRange(i int) bool {
	return i >= 0 && i < len(c.Items)
}

func (c Cart) rangeErr(i int) error {
	return fmt.Errorf("%w: %d of %d", ErrIndexRange, i, len(c.Items))
}

type CartOp string

const (
	CartOpAdd      CartOp = "add"
	CartOpIncrease CartOp = "increase"
	CartOpDecrease CartOp = "decrease"
	CartOpRemove   CartOp = "remove"
	CartOpClear    CartOp = "clear"
)

// A CartEvent describes one completed cart mutation,
// emitted to the activity trail after the state is persisted.
type CartEvent struct {
	ShopID      string
	Op          CartOp
	ProductName string
	Totals      Totals
}
