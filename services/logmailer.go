package services

import (
	"log"

	"github.com/armkstore/ecommerce-api/models"
)

// LogMailer is the dev-mode fallback used when SMTP is unconfigured: every
// message is logged instead of delivered.
type LogMailer struct{}

func NewLogMailer() *LogMailer { return &LogMailer{} }

func (m *LogMailer) SendOTP(to, code, purpose string) error {
	log.Printf("📧 [dev] OTP (%s) for %s: %s", purpose, to, code)
	return nil
}

func (m *LogMailer) SendOrderConfirmation(user models.User, order models.Order) error {
	log.Printf("📧 [dev] Order confirmation for %s: order %s", user.Email, order.OrderRef)
	return nil
}

func (m *LogMailer) SendOrderStatusUpdate(user models.User, order models.Order) error {
	log.Printf("📧 [dev] Order status update for %s: order %s -> %s", user.Email, order.OrderRef, order.Status)
	return nil
}
