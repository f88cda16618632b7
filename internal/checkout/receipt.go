package checkout

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// EmailBody renders the plain-text receipt mail.
func (r Receipt) EmailBody() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", r.Customer.FirstName)
	fmt.Fprintf(&b, "Thanks for your order. Your order number is %s.\n\n", r.OrderNumber)

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, l := range r.Items {
		fmt.Fprintf(tw, "%s (Size: %s)\tx%d\t%s\n", l.Name, l.Size, l.Quantity, zar(l.Total()))
	}
	fmt.Fprintf(tw, "\t\t\n")
	fmt.Fprintf(tw, "Subtotal\t\t%s\n", zar(r.Subtotal))
	if r.Shipping == 0 {
		fmt.Fprintf(tw, "Shipping\t\tFree\n")
	} else {
		fmt.Fprintf(tw, "Shipping\t\t%s\n", zar(r.Shipping))
	}
	fmt.Fprintf(tw, "Total\t\t%s\n", zar(r.Total))
	_ = tw.Flush()

	fmt.Fprintf(&b, "\nShipping to:\n%s %s\n%s\n%s %s\n%s\n",
		r.Customer.FirstName, r.Customer.LastName,
		r.Customer.Address,
		r.Customer.City, r.Customer.PostalCode,
		r.Customer.Country)
	b.WriteString("\nThe SneakVerse team\n")
	return b.String()
}

// zar formats South African rand.
func zar(v float64) string {
	return fmt.Sprintf("R%.2f", v)
}
