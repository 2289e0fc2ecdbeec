package view

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/juscash/djetracker/internal/apiclient"
)

const (
	pollInterval    = 2 * time.Second
	maxPollInterval = 30 * time.Second
)

type CrawlModel struct {
	CommonModel
	client *apiclient.Client

	session *apiclient.BuscaSession

	// interval grows while the API is unreachable and resets on success.
	interval time.Duration

	// cancelPoll aborts the in-flight status request when the view closes.
	cancelPoll context.CancelFunc

	busy   bool
	err    error
	status string
}

func NewCrawlModel(client *apiclient.Client) CrawlModel {
	return CrawlModel{client: client, interval: pollInterval}
}

func (m CrawlModel) Title() string { return "Busca Automática" }
func (m CrawlModel) ShortHelp() string {
	return "Esc: voltar | s: iniciar | x: parar"
}

// Init only emits the first tick. The poll itself is issued from Update so
// the cancel func lands on the model copy bubbletea keeps.
func (m CrawlModel) Init() tea.Cmd {
	return func() tea.Msg { return pollTickMsg{} }
}

type pollTickMsg struct{}

func (m CrawlModel) schedulePoll() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

func (m CrawlModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pollTickMsg:
		return m, m.pollCmd()

	case crawlStatusMsg:
		if m.cancelPoll != nil {
			m.cancelPoll()
			m.cancelPoll = nil
		}

		if msg.err != nil {
			if errors.Is(context.Cause(msg.ctx), context.Canceled) {
				return m, nil
			}

			m.err = msg.err
			m.interval = min(m.interval*2, maxPollInterval)

			return m, m.schedulePoll()
		}

		m.err = nil
		m.interval = pollInterval
		m.session = msg.session

		return m, m.schedulePoll()

	case crawlActionMsg:
		m.busy = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Erro: %v", msg.err)
			return m, nil
		}

		m.status = msg.status
		m.session = msg.session

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if m.cancelPoll != nil {
				m.cancelPoll()
			}
			return m, Back
		case "s":
			if m.busy {
				return m, nil
			}
			m.busy = true
			return m, m.startCmd()
		case "x":
			if m.busy {
				return m, nil
			}
			m.busy = true
			return m, m.stopCmd()
		}
	}

	return m, nil
}

func (m CrawlModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Render("Busca Automática de Publicações")

	lines := []string{title, ""}

	if m.err != nil {
		lines = append(lines,
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).
				Render(fmt.Sprintf("Sem conexão com a API: %v", m.err)),
			lipgloss.NewStyle().Faint(true).
				Render(fmt.Sprintf("Nova tentativa em %s", m.interval)),
		)
	}

	if s := m.session; s != nil {
		state := "Parada"
		if s.Ativa {
			state = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("Em andamento")
		}

		progress := ""
		if s.TotalDias > 0 {
			progress = fmt.Sprintf(" (%d%%)", s.DiasProcessados*100/s.TotalDias)
		}

		lines = append(lines,
			fmt.Sprintf("Situação:      %s", state),
			fmt.Sprintf("Período:       %s a %s", s.DataInicio, s.DataFim),
			fmt.Sprintf("Data atual:    %s", s.DataAtual),
			fmt.Sprintf("Dias:          %d/%d%s", s.DiasProcessados, s.TotalDias, progress),
			fmt.Sprintf("Publicações:   %d", s.PublicacoesEncontradas),
		)

		if s.Erro != "" {
			lines = append(lines, fmt.Sprintf("Último erro:   %s", s.Erro))
		}

		if !s.UltimaAtualizacao.IsZero() {
			lines = append(lines, "",
				lipgloss.NewStyle().Faint(true).
					Render("Atualizada em "+s.UltimaAtualizacao.Format("02/01/2006 15:04:05")),
			)
		}
	} else if m.err == nil {
		lines = append(lines, "Carregando situação...")
	}

	if m.status != "" {
		lines = append(lines, "", lipgloss.NewStyle().Faint(true).Render(m.status))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
}

// Messages

type crawlStatusMsg struct {
	ctx     context.Context
	session *apiclient.BuscaSession
	err     error
}

func (m *CrawlModel) pollCmd() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelPoll = cancel

	client := m.client

	return func() tea.Msg {
		session, err := client.BuscaStatus(ctx)

		return crawlStatusMsg{ctx: ctx, session: session, err: err}
	}
}

type crawlActionMsg struct {
	session *apiclient.BuscaSession
	status  string
	err     error
}

func (m CrawlModel) startCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		session, err := m.client.StartBusca(ctx)
		if err != nil {
			return crawlActionMsg{err: err}
		}

		return crawlActionMsg{session: session, status: "Busca automática iniciada"}
	}
}

func (m CrawlModel) stopCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		session, err := m.client.StopBusca(ctx)
		if err != nil {
			return crawlActionMsg{err: err}
		}

		return crawlActionMsg{session: session, status: "Busca automática interrompida"}
	}
}
