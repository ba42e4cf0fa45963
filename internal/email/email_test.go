package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateManager_RendersDefaults(t *testing.T) {
	tm := NewTemplateManager()

	body, err := tm.Render(TemplateLessorRejected, TemplateData{"Name": "Linh", "Reason": "<b>missing id</b>"})
	require.NoError(t, err)
	assert.Contains(t, body, "Hello Linh")
	// html/template экранирует пользовательский ввод
	assert.Contains(t, body, "&lt;b&gt;missing id&lt;/b&gt;")

	_, err = tm.Render("unknown", nil)
	assert.Error(t, err)
}

func TestNewProvider_FallsBackToLog(t *testing.T) {
	p := NewProvider(&SMTPConfig{}, NewTemplateManager())
	logProvider, ok := p.(*LogProvider)
	require.True(t, ok)

	require.NoError(t, p.SendTemplate([]string{"a@b.com"}, "Approved", TemplateLessorApproved, TemplateData{"Name": "A"}))

	sent := logProvider.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Approved", sent[0].Subject)
	assert.Contains(t, sent[0].HTMLBody, "approved")
}

func TestNewProvider_SMTPWhenHostSet(t *testing.T) {
	p := NewProvider(&SMTPConfig{Host: "smtp.example.com", Port: 587}, NewTemplateManager())
	_, ok := p.(*GomailProvider)
	assert.True(t, ok)
}
