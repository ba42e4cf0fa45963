package email

// SMTPConfig содержит конфигурацию SMTP сервера
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// Enabled - без хоста письма только логируются
func (c *SMTPConfig) Enabled() bool {
	return c.Host != ""
}
