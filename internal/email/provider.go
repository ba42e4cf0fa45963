package email

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет готовое письмо
	Send(email *Email) error

	// SendTemplate рендерит шаблон и отправляет письмо
	SendTemplate(to []string, subject string, templateName string, data TemplateData) error

	Close() error
}

// TemplateRenderer рендерит HTML шаблоны писем
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
}

// NewProvider выбирает провайдера по конфигурации
func NewProvider(cfg *SMTPConfig, renderer TemplateRenderer) Provider {
	if cfg.Enabled() {
		return NewGomailProvider(cfg, renderer)
	}
	return NewLogProvider(renderer)
}
