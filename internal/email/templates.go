package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

const (
	TemplateLessorApproved = "lessor_approved"
	TemplateLessorRejected = "lessor_rejected"
	TemplateNotification   = "notification"
)

var defaultTemplates = map[string]string{
	TemplateLessorApproved: `<p>Hello {{.Name}},</p>
<p>Your application to become a lessor has been approved. You can now publish rental listings.</p>`,
	TemplateLessorRejected: `<p>Hello {{.Name}},</p>
<p>Unfortunately your application to become a lessor was rejected.</p>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}
<p>You can submit a new application at any time.</p>`,
	TemplateNotification: `<h3>{{.Title}}</h3><p>{{.Message}}</p>`,
}

// TemplateManager хранит скомпилированные шаблоны писем
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер со встроенными шаблонами
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{templates: make(map[string]*template.Template)}
	for name, body := range defaultTemplates {
		// встроенные шаблоны проверены тестом, ошибка здесь - баг
		if err := tm.AddTemplate(name, body); err != nil {
			panic(err)
		}
	}
	return tm
}

func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// AddTemplate добавляет или заменяет шаблон
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()
	return nil
}
