// Package cart holds the live order for one table session: a set of line
// items keyed by product name plus the aggregates derived from them. The
// engine is not safe for concurrent use; one session owns one Cart.
package cart

import "errors"

var ErrEmptyCart = errors.New("cart is empty")

type LineItem struct {
	Name      string
	UnitPrice float64
	Quantity  int
	LineTotal float64
}

type Cart struct {
	items map[string]*LineItem
	names []string // insertion order, so reviews and receipts read like the diner ordered
	count int
	total float64
}

func New() *Cart {
	return &Cart{items: make(map[string]*LineItem)}
}

// Add puts one unit of the named product in the cart. Adding a name that is
// already present increments its quantity; the unit price comes from the menu
// catalog and is trusted as-is.
func (c *Cart) Add(name string, unitPrice float64) {
	if li, ok := c.items[name]; ok {
		li.Quantity++
		li.LineTotal = li.UnitPrice * float64(li.Quantity)
	} else {
		c.items[name] = &LineItem{Name: name, UnitPrice: unitPrice, Quantity: 1, LineTotal: unitPrice}
		c.names = append(c.names, name)
	}
	c.recompute()
}

// SetQuantity replaces the quantity of an existing item. A quantity of zero
// or less removes the item: a line at quantity 0 never stays in the cart.
// Unknown names are ignored; there is no price to create an item from here.
func (c *Cart) SetQuantity(name string, quantity int) {
	if quantity <= 0 {
		c.Remove(name)
		return
	}
	li, ok := c.items[name]
	if !ok {
		return
	}
	li.Quantity = quantity
	li.LineTotal = li.UnitPrice * float64(quantity)
	c.recompute()
}

func (c *Cart) Remove(name string) {
	if _, ok := c.items[name]; !ok {
		return
	}
	delete(c.items, name)
	for i, n := range c.names {
		if n == name {
			c.names = append(c.names[:i], c.names[i+1:]...)
			break
		}
	}
	c.recompute()
}

func (c *Cart) Clear() {
	c.items = make(map[string]*LineItem)
	c.names = nil
	c.recompute()
}

// recompute rebuilds both aggregates from the full item set after every
// mutation. Incremental patching is where aggregate drift bugs come from,
// and carts hold tens of items at most.
func (c *Cart) recompute() {
	count, total := 0, 0.0
	for _, li := range c.items {
		count += li.Quantity
		total += li.LineTotal
	}
	c.count, c.total = count, total
}

func (c *Cart) Count() int     { return c.count }
func (c *Cart) Total() float64 { return c.total }
func (c *Cart) Empty() bool    { return len(c.items) == 0 }

func (c *Cart) Get(name string) (LineItem, bool) {
	li, ok := c.items[name]
	if !ok {
		return LineItem{}, false
	}
	return *li, true
}

// Items returns a copy of the line items in insertion order. Mutating the
// returned slice never touches the live cart.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, 0, len(c.names))
	for _, n := range c.names {
		out = append(out, *c.items[n])
	}
	return out
}
