package services

import (
	"context"

	"rental_backend/internal/email"
	"rental_backend/internal/logger"
)

// EmailService - письма пользователям поверх email.Provider
type EmailService struct {
	provider email.Provider
}

func NewEmailService(provider email.Provider) *EmailService {
	return &EmailService{provider: provider}
}

func (s *EmailService) SendLessorApproved(ctx context.Context, to, name string) error {
	return s.send(ctx, to, "Your lessor application was approved", email.TemplateLessorApproved, email.TemplateData{
		"Name": name,
	})
}

func (s *EmailService) SendLessorRejected(ctx context.Context, to, name, reason string) error {
	return s.send(ctx, to, "Your lessor application was rejected", email.TemplateLessorRejected, email.TemplateData{
		"Name":   name,
		"Reason": reason,
	})
}

func (s *EmailService) send(ctx context.Context, to, subject, templateName string, data email.TemplateData) error {
	if to == "" {
		return nil
	}
	if err := s.provider.SendTemplate([]string{to}, subject, templateName, data); err != nil {
		logger.CtxWithError(ctx, "Failed to send email", err, "template", templateName, "to", to)
		return err
	}
	logger.CtxDebug(ctx, "Email sent", "template", templateName, "to", to)
	return nil
}
