// Package receipt formats orders as printable text receipts. It only reads
// the order's public accessors and never mutates it.
package receipt

import (
	"fmt"
	"io"
	"strings"

	"github.com/cafepos/cafe-api-server/internal/domains/orders/domain"
)

const lineWidth = 40

// Business identifies the café on the receipt header.
type Business struct {
	Name    string
	Address string
	Phone   string
}

// Renderer turns orders into plain-text receipts suitable for a thermal
// printer or the console.
type Renderer struct {
	business Business
}

func NewRenderer(business Business) *Renderer {
	return &Renderer{business: business}
}

// Render formats the receipt for an order, open or closed.
func (r *Renderer) Render(order *domain.Order) string {
	var b strings.Builder
	rule := strings.Repeat("=", lineWidth)
	thin := strings.Repeat("-", lineWidth)

	b.WriteString(rule + "\n")
	b.WriteString(center(r.business.Name) + "\n")
	if r.business.Address != "" {
		b.WriteString(center(r.business.Address) + "\n")
	}
	if r.business.Phone != "" {
		b.WriteString(center(r.business.Phone) + "\n")
	}
	b.WriteString(rule + "\n")

	if order.ID() != 0 {
		fmt.Fprintf(&b, "Order #%d\n", order.ID())
	}
	if table := order.TableNumber(); table != nil {
		fmt.Fprintf(&b, "Table: %d\n", *table)
	} else {
		b.WriteString("Take-away\n")
	}
	fmt.Fprintf(&b, "Opened: %s\n", order.CreatedAt().Format("2006-01-02 15:04"))
	b.WriteString(thin + "\n")

	for _, item := range order.Items() {
		fmt.Fprintf(&b, "%-20s %3d x %6s\n", clip(item.Name, 20), item.Quantity, formatAmount(item.UnitPrice))
		fmt.Fprintf(&b, "%*s\n", lineWidth, formatAmount(item.LineTotal()))
	}
	b.WriteString(thin + "\n")

	fmt.Fprintf(&b, "%-20s %*s\n", "Subtotal", 19, formatAmount(order.Subtotal()))
	if !order.Discount().IsZero() {
		fmt.Fprintf(&b, "%-20s %*s\n", "Discount", 19, "-"+formatAmount(order.Discount()))
	}
	fmt.Fprintf(&b, "%-20s %*s\n", "TOTAL", 19, formatAmount(order.TotalPrice()))
	b.WriteString(rule + "\n")
	b.WriteString(center("Thank you!") + "\n")
	return b.String()
}

// Print writes the rendered receipt to a printer; any io.Writer will do.
func (r *Renderer) Print(w io.Writer, order *domain.Order) error {
	_, err := io.WriteString(w, r.Render(order))
	return err
}

func formatAmount(m domain.Money) string {
	digits := fmt.Sprintf("%d", m.Amount())
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)
	return strings.Join(groups, ",")
}

func center(s string) string {
	if len(s) >= lineWidth {
		return s
	}
	pad := (lineWidth - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
