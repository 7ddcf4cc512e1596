package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var fieldKeys = map[string]string{
	"Name":     "signup.fields.name",
	"Email":    "signup.fields.email",
	"Password": "signup.fields.password",
	"Confirm":  "signup.fields.confirm",
	"Plan":     "signup.fields.plan",
}

func isSecret(field string) bool {
	return field == "Password" || field == "Confirm"
}

func (m Model) currentField() string {
	fields := m.wizard.Current().Fields
	if m.signupField >= len(fields) {
		return fields[0]
	}
	return fields[m.signupField]
}

// storeSignupField copies the input into the wizard.
func (m *Model) storeSignupField() {
	_ = m.wizard.Set(m.currentField(), m.signupInput.Value())
}

// loadSignupField points the input at the current field.
func (m *Model) loadSignupField() {
	field := m.currentField()
	value, _ := m.wizard.Get(field)
	m.signupInput.SetValue(value)
	m.signupInput.CursorEnd()
	if isSecret(field) {
		m.signupInput.EchoMode = textinput.EchoPassword
	} else {
		m.signupInput.EchoMode = textinput.EchoNormal
	}
}

func (m Model) handleSignupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.signedUp != nil {
		if key.Matches(msg, m.keys.Confirm) {
			m.wizard.Reset()
			m.signedUp = nil
			m.signupField = 0
			m.loadSignupField()
			cmd := m.signupInput.Focus()
			return m, cmd
		}
		return m, nil
	}

	fields := m.wizard.Current().Fields
	switch {
	case key.Matches(msg, m.keys.Up):
		m.storeSignupField()
		m.signupField = (m.signupField + len(fields) - 1) % len(fields)
		m.loadSignupField()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.storeSignupField()
		m.signupField = (m.signupField + 1) % len(fields)
		m.loadSignupField()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.storeSignupField()
		m.wizard.Back()
		m.signupField = 0
		m.loadSignupField()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		m.storeSignupField()
		if m.signupField < len(fields)-1 {
			m.signupField++
			m.loadSignupField()
			return m, nil
		}
		return m.advanceSignup()
	}

	var cmd tea.Cmd
	m.signupInput, cmd = m.signupInput.Update(msg)
	return m, cmd
}

func (m Model) advanceSignup() (tea.Model, tea.Cmd) {
	last := m.wizard.Last()
	if errs := m.wizard.Next(); errs != nil {
		m.focusFirstError()
		return m, nil
	}
	if !last {
		m.signupField = 0
		m.loadSignupField()
		return m, nil
	}

	value, errs := m.wizard.Submit()
	if errs != nil {
		m.focusFirstError()
		return m, nil
	}
	m.signedUp = &value
	m.signupInput.Blur()
	m.logger.Info("signup completed", "name", value.Name, "plan", value.Plan)
	return m, nil
}

func (m *Model) focusFirstError() {
	errs := m.wizard.Errors()
	for i, f := range m.wizard.Current().Fields {
		if _, ok := errs[f]; ok {
			m.signupField = i
			break
		}
	}
	m.loadSignupField()
}

func (m Model) renderSignup() string {
	styles := m.theme.Styles()

	if m.signedUp != nil {
		return styles.Panel.Render(styles.SuccessText.Render(
			m.tr.T("signup.done", m.signedUp.Name, m.signedUp.Plan)))
	}

	steps := m.wizard.Steps()
	step := m.wizard.Current()
	errs := m.wizard.Errors()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(
		m.tr.T("signup.step", m.wizard.Step()+1, len(steps), m.tr.T("signup.steps."+step.Key))))
	b.WriteString("\n\n")

	for i, field := range step.Fields {
		b.WriteString(styles.MutedText.Render(m.tr.T(fieldKeys[field])))
		b.WriteString("\n")
		if i == m.signupField {
			b.WriteString(m.signupInput.View())
		} else {
			value, _ := m.wizard.Get(field)
			if isSecret(field) {
				value = strings.Repeat("*", len([]rune(value)))
			}
			b.WriteString(styles.Text.Render(value))
		}
		b.WriteString("\n")
		if msg, ok := errs[field]; ok {
			b.WriteString(styles.DangerText.Render(m.tr.T(fieldKeys[field]) + " " + msg))
			b.WriteString("\n")
		}
	}
	return b.String()
}
