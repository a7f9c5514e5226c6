package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"text/template"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Service composes and sends the store's transactional emails.
type Service struct {
	sender      Sender
	fromAddress string
	fromName    string
	templates   *template.Template
}

// NewService creates an email service with all templates parsed.
func NewService(sender Sender, fromAddress, fromName string) (*Service, error) {
	tmpl, err := template.New("email").Funcs(template.FuncMap{
		"dollars": func(cents int64) string {
			return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
		},
	}).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}

	return &Service{
		sender:      sender,
		fromAddress: fromAddress,
		fromName:    fromName,
		templates:   tmpl,
	}, nil
}

// SendOrderConfirmation sends the post-checkout receipt.
func (s *Service) SendOrderConfirmation(ctx context.Context, data OrderConfirmationEmail) error {
	return s.send(ctx, data.Email, data)
}

// SendOrderStatus notifies the customer of a fulfillment status change.
func (s *Service) SendOrderStatus(ctx context.Context, data OrderStatusEmail) error {
	return s.send(ctx, data.Email, data)
}

// SendRefundNotice notifies the customer their wallet was credited.
func (s *Service) SendRefundNotice(ctx context.Context, data RefundNoticeEmail) error {
	return s.send(ctx, data.Email, data)
}

// SendLowStockAlert notifies store staff that a variant is nearly sold out.
func (s *Service) SendLowStockAlert(ctx context.Context, data LowStockEmail) error {
	return s.send(ctx, data.Email, data)
}

func (s *Service) send(ctx context.Context, to string, data Template) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, data.TemplateName(), data); err != nil {
		return fmt.Errorf("render %s: %w", data.TemplateName(), err)
	}

	msg := &Email{
		To:       []string{to},
		From:     fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress),
		Subject:  data.Subject(),
		TextBody: body.String(),
	}

	if _, err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send %s: %w", data.TemplateName(), err)
	}
	return nil
}
