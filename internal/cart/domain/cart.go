// Package domain holds the shopping cart aggregate. All money is decimal USD;
// conversion to VES happens at presentation time with the BCV rate.
package domain

import (
	"github.com/shopspring/decimal"
)

// LineItem is one product's quantity and price within a cart. The wire shape
// matches what the storefront persists: product_id, name, price, quantity,
// image_url.
type LineItem struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"image_url,omitempty"`
}

// Cart is a customer's cart, one line item per product.
type Cart struct {
	ID    string     `json:"id"`
	Items []LineItem `json:"items"`
}

// NewCart returns an empty cart with the given id.
func NewCart(id string) *Cart {
	return &Cart{ID: id}
}

// AddItem merges qty into an existing line item for the product or appends a
// new one.
func (c *Cart) AddItem(item LineItem) {
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// RemoveItem deletes the line item for productID, reporting whether it was
// present.
func (c *Cart) RemoveItem(productID uint) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// SetQuantity sets the quantity of an existing line item, reporting whether
// it was present. Callers must route quantities <= 0 to RemoveItem.
func (c *Cart) SetQuantity(productID uint, quantity int) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			return true
		}
	}
	return false
}

// Subtotal is the exact sum of unit price times quantity over all line items.
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal
}

// ItemCount is the total quantity across all line items.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Clear removes every line item.
func (c *Cart) Clear() {
	c.Items = nil
}

// TotalUSD is subtotal plus the flat shipping fee; an empty cart is charged
// nothing, including shipping.
func (c *Cart) TotalUSD(shippingFee decimal.Decimal) decimal.Decimal {
	subtotal := c.Subtotal()
	if !subtotal.IsPositive() {
		return decimal.Zero
	}
	return subtotal.Add(shippingFee)
}
