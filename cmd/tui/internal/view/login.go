package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/juscash/djetracker/internal/apiclient"
)

// LoggedInMsg is emitted once authentication succeeds.
type LoggedInMsg struct {
	User *apiclient.User
}

type LoginModel struct {
	CommonModel
	client *apiclient.Client

	form *huh.Form

	email    string
	password string

	submitting bool
	err        error
}

func NewLoginModel(client *apiclient.Client) LoginModel {
	m := LoginModel{client: client}
	m.form = m.newForm()

	return m
}

func (m LoginModel) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("email").
				Title("Email").
				Value(&m.email).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return fmt.Errorf("email inválido")
					}
					return nil
				}),

			huh.NewInput().
				Key("password").
				Title("Senha").
				EchoMode(huh.EchoModePassword).
				Value(&m.password),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m LoginModel) Title() string     { return "Login" }
func (m LoginModel) ShortHelp() string { return "Enter: entrar | Ctrl+C: sair" }

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = msg.err
			m.form = m.newForm()

			return m, m.form.Init()
		}

		return m, func() tea.Msg { return LoggedInMsg{User: msg.user} }
	}

	if m.submitting {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.submitting = true
	m.err = nil

	return m, m.loginCmd(m.form.GetString("email"), m.form.GetString("password"))
}

func (m LoginModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Render("DJE Tracker")

	body := m.form.View()
	if m.submitting {
		body = "Autenticando..."
	}

	content := title + "\n\n" + body

	if m.err != nil {
		content += "\n\n" + lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Render(m.err.Error())
	}

	return lipgloss.NewStyle().Padding(2).Render(content)
}

type loginResultMsg struct {
	user *apiclient.User
	err  error
}

func (m LoginModel) loginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		user, err := m.client.Login(ctx, email, password)

		return loginResultMsg{user: user, err: err}
	}
}
