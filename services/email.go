package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"

	"github.com/armkstore/ecommerce-api/models"
)

// Mailer delivers outbound store mail. Checkout finalization treats delivery
// as fire-and-forget: a failed send is logged, never surfaced to the buyer.
type Mailer interface {
	SendOTP(to, code, purpose string) error
	SendOrderConfirmation(user models.User, order models.Order) error
	SendOrderStatusUpdate(user models.User, order models.Order) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	dialer     *gomail.Dialer
	from       string
	adminEmail string
}

// NewSMTPMailerFromEnv builds a mailer from SMTP_HOST, SMTP_PORT, SMTP_USER,
// SMTP_PASSWORD, EMAIL_FROM and ADMIN_EMAIL.
func NewSMTPMailerFromEnv() (*SMTPMailer, error) {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil, fmt.Errorf("SMTP_HOST is not set")
	}
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}

	from := os.Getenv("EMAIL_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USER")
	}

	return &SMTPMailer{
		dialer:     gomail.NewDialer(host, port, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASSWORD")),
		from:       from,
		adminEmail: os.Getenv("ADMIN_EMAIL"),
	}, nil
}

var otpTemplate = template.Must(template.New("otp").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; border: 1px solid #ddd; border-radius: 10px;">
    <h2 style="color: #333;">{{.Subject}}</h2>
    <p style="font-size: 16px; color: #555;">{{.Message}}</p>
    <h3 style="color: #008000; font-size: 24px; text-align: center;">{{.Code}}</h3>
    <p style="font-size: 14px; color: #777;">This OTP is valid for 10 minutes. Please do not share it with anyone.</p>
</div>`))

var orderTemplate = template.Must(template.New("order").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; border: 1px solid #ddd; border-radius: 10px;">
    <p>{{.Greeting}}</p>
    <p>{{.Intro}}</p>
    <p><strong>Order {{.Order.OrderRef}}</strong></p>
    {{range .Order.Items}}
    <p><strong>{{.Name}}</strong> - {{.Quantity}} x {{printf "%.2f" .Price}}{{if .Color}} ({{.Color}}){{end}}</p>
    {{end}}
    <p><strong>Total Price:</strong> {{printf "%.2f" .Order.TotalPrice}}</p>
    <p><strong>Shipping Address:</strong> {{.Order.ShippingAddress.Address}}, {{.Order.ShippingAddress.City}}, {{.Order.ShippingAddress.PostalCode}}</p>
</div>`))

func (m *SMTPMailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	log.Printf("📧 Email sent to %s: %s", to, subject)
	return nil
}

// SendOTP mails a one-time code for registration or password reset.
func (m *SMTPMailer) SendOTP(to, code, purpose string) error {
	subject := "Verify Your Account - OTP Code"
	message := "Your One-Time Password (OTP) for account verification is:"
	if purpose == "reset" {
		subject = "Reset Your Password - OTP Verification"
		message = "Use the following OTP to reset your password:"
	}

	var body bytes.Buffer
	if err := otpTemplate.Execute(&body, map[string]string{
		"Subject": subject,
		"Message": message,
		"Code":    code,
	}); err != nil {
		return err
	}
	return m.send(to, subject, body.String())
}

// SendOrderConfirmation notifies both the buyer and the store admin about a
// freshly finalized order.
func (m *SMTPMailer) SendOrderConfirmation(user models.User, order models.Order) error {
	var userBody bytes.Buffer
	if err := orderTemplate.Execute(&userBody, map[string]interface{}{
		"Greeting": "Dear " + user.Name + ",",
		"Intro":    "Thank you for your order! Your order has been successfully placed.",
		"Order":    order,
	}); err != nil {
		return err
	}
	if err := m.send(user.Email, "Order Placed Successfully", userBody.String()); err != nil {
		return err
	}

	if m.adminEmail == "" {
		return nil
	}
	var adminBody bytes.Buffer
	if err := orderTemplate.Execute(&adminBody, map[string]interface{}{
		"Greeting": "Hello Admin,",
		"Intro":    "A new order has been placed by " + user.Name + ".",
		"Order":    order,
	}); err != nil {
		return err
	}
	return m.send(m.adminEmail, "New Order Received", adminBody.String())
}

// SendOrderStatusUpdate tells the buyer their order moved to a new
// fulfillment status.
func (m *SMTPMailer) SendOrderStatusUpdate(user models.User, order models.Order) error {
	subject := fmt.Sprintf("Order Update - Your Order %s", order.OrderRef)
	body := fmt.Sprintf(
		`<div style="font-family: Arial, sans-serif; padding: 20px;">
<p>Your order %s has been updated to status: <strong>%s</strong>.</p>
</div>`, template.HTMLEscapeString(order.OrderRef), template.HTMLEscapeString(string(order.Status)))
	return m.send(user.Email, subject, body)
}
