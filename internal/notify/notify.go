// Package notify dispatches order confirmations to the customer and a
// fixed operator contact. Dispatch is an external collaborator: failure is
// surfaced to the caller but must never roll back a persisted order.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/AhsanAli-Soomro/ecomerce-web/internal/models"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/pricing"
)

type Notifier interface {
	Send(ctx context.Context, order *models.Order) error
}

// OrderSummary renders the confirmation text shared by all transports.
// Display rounding to 2 digits happens here, at the presentation boundary.
func OrderSummary(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order ID: %s\n", order.OrderID)
	fmt.Fprintf(&b, "Name: %s\n", order.Name)
	fmt.Fprintf(&b, "Phone: %s\n", order.UserPhone)
	fmt.Fprintf(&b, "Address: %s, %s, %s, %s, %s\n", order.Address, order.City, order.State, order.Country, order.PostalCode)
	b.WriteString("Items:\n")
	for _, item := range order.Cart {
		if item.Sale > 0 {
			fmt.Fprintf(&b, "  %s (%s) - $%.2f ($%.2f before) x %d\n",
				item.Name, item.Category, pricing.RoundDisplay(item.SalePrice), pricing.RoundDisplay(item.Price), item.Quantity)
		} else {
			fmt.Fprintf(&b, "  %s (%s) - $%.2f x %d\n",
				item.Name, item.Category, pricing.RoundDisplay(item.Price), item.Quantity)
		}
	}
	fmt.Fprintf(&b, "Total Quantity: %d\n", order.TotalQuantity)
	fmt.Fprintf(&b, "Total Amount: $%.2f\n", pricing.RoundDisplay(order.TotalAmount))
	b.WriteString("Thank you for your order!")
	return b.String()
}

// LogNotifier writes the confirmation to the log instead of sending it.
// Default in development.
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, order *models.Order) error {
	slog.Info("==========================================")
	slog.Info("EMAIL SENT TO: " + order.Email)
	slog.Info("Subject: Order Confirmation - " + order.OrderID)
	for _, line := range strings.Split(OrderSummary(order), "\n") {
		slog.Info(line)
	}
	slog.Info("==========================================")
	return nil
}

// SMTPNotifier sends the confirmation to the customer and a copy to the
// operator through a plain SMTP relay.
type SMTPNotifier struct {
	Addr     string // host:port
	From     string
	Operator string // fixed operator contact, always copied
}

func (n *SMTPNotifier) Send(ctx context.Context, order *models.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	to := []string{order.Email}
	if n.Operator != "" {
		to = append(to, n.Operator)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Order Confirmation: %s\r\n\r\n%s\r\n",
		n.From, strings.Join(to, ", "), order.OrderID, OrderSummary(order))

	if err := smtp.SendMail(n.Addr, nil, n.From, to, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
