package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/juscash/djetracker/internal/apiclient"
	"github.com/juscash/djetracker/internal/publication"
)

// boardColumns fixes the column order on screen.
var boardColumns = []publication.Status{
	publication.StatusNova,
	publication.StatusLida,
	publication.StatusProcessada,
	publication.StatusConcluida,
}

// OpenDetailMsg asks the root model to show a single record.
type OpenDetailMsg struct {
	Publicacao apiclient.Publicacao
}

type boardState int

const (
	boardStateBrowse boardState = iota
	boardStateMove
)

type BoardModel struct {
	CommonModel
	client *apiclient.Client

	state   boardState
	columns map[publication.Status][]apiclient.Publicacao
	col     int
	row     map[publication.Status]int

	moveForm   *huh.Form
	moveTarget string

	loading bool
	err     error
	status  string
}

func NewBoardModel(client *apiclient.Client) BoardModel {
	return BoardModel{
		client:  client,
		columns: map[publication.Status][]apiclient.Publicacao{},
		row:     map[publication.Status]int{},
		loading: true,
	}
}

func (m BoardModel) Title() string { return "Publicações" }
func (m BoardModel) ShortHelp() string {
	if m.state == boardStateMove {
		return "Enter: confirmar | Esc: cancelar"
	}
	return "Esc: voltar | ←/→: coluna | ↑/↓: card | Enter: detalhes | m: mover | r: atualizar"
}

func (m BoardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardLoadMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.columns = map[publication.Status][]apiclient.Publicacao{}
		for _, pub := range msg.pubs {
			m.columns[pub.Status] = append(m.columns[pub.Status], pub)
		}
		m.clampCursor()

		return m, nil

	case boardMoveMsg:
		m.state = boardStateBrowse
		m.moveForm = nil
		if msg.err != nil {
			m.status = fmt.Sprintf("Erro: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Movido para %s", StatusLabel(msg.pub.Status))

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

		return m, nil
	}

	switch m.state {
	case boardStateBrowse:
		return m.updateBrowse(msg)
	case boardStateMove:
		return m.updateMove(msg)
	}

	return m, nil
}

func (m BoardModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "r":
		m.loading = true
		m.status = ""
		return m, m.loadCmd()
	case "left", "h":
		if m.col > 0 {
			m.col--
		}
	case "right", "l":
		if m.col < len(boardColumns)-1 {
			m.col++
		}
	case "up", "k":
		status := boardColumns[m.col]
		if m.row[status] > 0 {
			m.row[status]--
		}
	case "down", "j":
		status := boardColumns[m.col]
		if m.row[status] < len(m.columns[status])-1 {
			m.row[status]++
		}
	case "enter":
		if pub, ok := m.selected(); ok {
			return m, func() tea.Msg { return OpenDetailMsg{Publicacao: pub} }
		}
	case "m":
		return m.enterMoveMode()
	}

	return m, nil
}

func (m BoardModel) enterMoveMode() (tea.Model, tea.Cmd) {
	pub, ok := m.selected()
	if !ok {
		return m, nil
	}

	allowed := publication.AllowedNext(pub.Status)
	if len(allowed) == 0 {
		m.status = fmt.Sprintf("%q não permite transições", StatusLabel(pub.Status))
		return m, nil
	}

	options := make([]huh.Option[string], len(allowed))
	for i, s := range allowed {
		options[i] = huh.NewOption(StatusLabel(s), string(s))
	}

	m.moveTarget = string(allowed[0])
	m.moveForm = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("status").
				Title("Mover para").
				Options(options...).
				Value(&m.moveTarget),
		),
	).WithWidth(40).WithShowHelp(false)
	m.state = boardStateMove

	return m, m.moveForm.Init()
}

func (m BoardModel) updateMove(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = boardStateBrowse
			m.moveForm = nil

			return m, nil
		}
	}

	form, cmd := m.moveForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.moveForm = f
	}

	if m.moveForm.State != huh.StateCompleted {
		return m, cmd
	}

	pub, ok := m.selected()
	if !ok {
		m.state = boardStateBrowse
		m.moveForm = nil

		return m, nil
	}

	target := publication.Status(m.moveForm.GetString("status"))

	// The server is the authority, but an impossible move is rejected
	// before the round trip.
	if !publication.CanTransition(pub.Status, target) {
		m.state = boardStateBrowse
		m.moveForm = nil
		m.status = fmt.Sprintf("Transição de %q para %q não permitida", pub.Status, target)

		return m, nil
	}

	return m, m.moveCmd(pub, target)
}

func (m BoardModel) selected() (apiclient.Publicacao, bool) {
	status := boardColumns[m.col]

	items := m.columns[status]
	idx := m.row[status]
	if idx < 0 || idx >= len(items) {
		return apiclient.Publicacao{}, false
	}

	return items[idx], true
}

func (m *BoardModel) clampCursor() {
	for _, status := range boardColumns {
		if n := len(m.columns[status]); m.row[status] >= n {
			if n == 0 {
				m.row[status] = 0
			} else {
				m.row[status] = n - 1
			}
		}
	}
}

var (
	columnStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(32)

	activeColumnStyle = columnStyle.
				BorderForeground(lipgloss.Color("63"))

	cardStyle = lipgloss.NewStyle().PaddingLeft(1)

	selectedCardStyle = cardStyle.
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))
)

func (m BoardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Carregando publicações...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Erro: %v", m.err))
	}

	rendered := make([]string, len(boardColumns))
	for i, status := range boardColumns {
		rendered[i] = m.renderColumn(i, status)
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	if m.state == boardStateMove && m.moveForm != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Render(m.moveForm.View())

		content = lipgloss.JoinVertical(lipgloss.Left, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m BoardModel) renderColumn(idx int, status publication.Status) string {
	items := m.columns[status]

	header := lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("%s (%d)", StatusLabel(status), len(items)),
	)

	lines := []string{header, ""}
	for i, pub := range items {
		line := fmt.Sprintf("%s  %s", pub.NumeroProcesso, FormatDate(pub.DataDisponibilizacao))

		style := cardStyle
		if idx == m.col && i == m.row[status] {
			style = selectedCardStyle
		}

		lines = append(lines, style.Render(line))
	}

	style := columnStyle
	if idx == m.col {
		style = activeColumnStyle
	}

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Messages

type boardLoadMsg struct {
	pubs []apiclient.Publicacao
	err  error
}

func (m BoardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		pubs, _, err := m.client.ListPublicacoes(ctx, apiclient.ListFilter{Limit: 100})

		return boardLoadMsg{pubs: pubs, err: err}
	}
}

type boardMoveMsg struct {
	pub *apiclient.Publicacao
	err error
}

func (m BoardModel) moveCmd(pub apiclient.Publicacao, target publication.Status) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		updated, err := m.client.UpdateStatus(ctx, pub.ID, target)

		return boardMoveMsg{pub: updated, err: err}
	}
}
