// Package email sends transactional mail over SMTP.
package email

import (
	"fmt"
	"net/smtp"

	"github.com/example/artisan-market/internal/catalog"
)

// OrderItem is one order line as rendered in mail bodies.
type OrderItem struct {
	ProductID string
	Name      string
	Quantity  int
	Price     catalog.Decimal
}

type Service struct {
	host string
	port string
	from string
}

func NewService(host, port, from string) *Service {
	return &Service{host: host, port: port, from: from}
}

// SendOrderConfirmation mails the customer after their order is placed.
func (s *Service) SendOrderConfirmation(to, orderID string, total catalog.Decimal, items []OrderItem) error {
	subject := fmt.Sprintf("Order confirmed — thank you! (order %s)", shortOrderID(orderID))
	body := BuildOrderConfirmationBody(orderID, total, items)
	return s.send(to, subject, body)
}

// SendOrderShipped mails the customer when their order ships.
func (s *Service) SendOrderShipped(to, orderID string) error {
	subject := fmt.Sprintf("Your order is on its way (order %s)", shortOrderID(orderID))
	body := BuildOrderShippedBody(orderID)
	return s.send(to, subject, body)
}

func shortOrderID(orderID string) string {
	if len(orderID) > 8 {
		return orderID[:8]
	}
	return orderID
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, nil, s.from, []string{to}, []byte(msg))
}
