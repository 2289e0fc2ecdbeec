package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/juscash/djetracker/internal/apiclient"
)

type searchState int

const (
	searchStateBrowse searchState = iota
	searchStateFilter
)

// SearchModel lists publications in a table with the API's filters applied.
type SearchModel struct {
	CommonModel
	client *apiclient.Client

	state searchState
	table table.Model
	pubs  []apiclient.Publicacao
	page  *apiclient.Pagination
	form  *huh.Form

	filter apiclient.ListFilter

	// Form bindings
	formProcesso string
	formAutor    string
	formInicial  string
	formFinal    string

	loading bool
	err     error
}

func NewSearchModel(client *apiclient.Client) SearchModel {
	columns := []table.Column{
		{Title: "Processo", Width: 28},
		{Title: "Disponibilização", Width: 16},
		{Title: "Autores", Width: 30},
		{Title: "Status", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return SearchModel{
		client:  client,
		table:   t,
		filter:  apiclient.ListFilter{Limit: 50},
		loading: true,
	}
}

func (m SearchModel) Title() string { return "Pesquisa de Publicações" }
func (m SearchModel) ShortHelp() string {
	if m.state == searchStateFilter {
		return "Enter: aplicar | Esc: cancelar"
	}
	return "Esc: voltar | f: filtros | n/p: página | Enter: detalhes | r: atualizar"
}

func (m SearchModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case searchLoadMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.pubs = msg.pubs
		m.page = msg.page
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case searchStateBrowse:
		return m.updateBrowse(msg)
	case searchStateFilter:
		return m.updateFilter(msg)
	}

	return m, nil
}

func (m SearchModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "f":
			return m.enterFilterMode()
		case "n":
			if m.page != nil && m.filter.Page < m.page.TotalPages {
				m.filter.Page++
				m.loading = true

				return m, m.loadCmd()
			}
		case "p":
			if m.filter.Page > 1 {
				m.filter.Page--
				m.loading = true

				return m, m.loadCmd()
			}
		case "enter":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.pubs) {
				pub := m.pubs[idx]
				return m, func() tea.Msg { return OpenDetailMsg{Publicacao: pub} }
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m SearchModel) enterFilterMode() (tea.Model, tea.Cmd) {
	m.formProcesso = m.filter.NumeroProcesso
	m.formAutor = m.filter.Autor
	m.formInicial = m.filter.DataInicial
	m.formFinal = m.filter.DataFinal

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("processo").
				Title("Número do processo").
				Value(&m.formProcesso),

			huh.NewInput().
				Key("autor").
				Title("Autor").
				Value(&m.formAutor),

			huh.NewInput().
				Key("inicial").
				Title("Data inicial").
				Placeholder("2025-03-17").
				Value(&m.formInicial),

			huh.NewInput().
				Key("final").
				Title("Data final").
				Placeholder("2025-03-21").
				Value(&m.formFinal),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = searchStateFilter
	m.table.Blur()

	return m, m.form.Init()
}

func (m SearchModel) updateFilter(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = searchStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.filter.NumeroProcesso = m.form.GetString("processo")
	m.filter.Autor = m.form.GetString("autor")
	m.filter.DataInicial = m.form.GetString("inicial")
	m.filter.DataFinal = m.form.GetString("final")
	m.filter.Page = 1

	m.state = searchStateBrowse
	m.form = nil
	m.table.Focus()
	m.loading = true

	return m, m.loadCmd()
}

func (m SearchModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Carregando publicações...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Erro: %v", m.err))
	}

	header := ""
	if m.page != nil {
		header = fmt.Sprintf("Página %d de %d | %d publicações", m.page.Page, m.page.TotalPages, m.page.Total)
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == searchStateFilter && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("Filtros\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *SearchModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.pubs))
	for _, pub := range m.pubs {
		rows = append(rows, table.Row{
			pub.NumeroProcesso,
			FormatDate(pub.DataDisponibilizacao),
			pub.Autores,
			string(pub.Status),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type searchLoadMsg struct {
	pubs []apiclient.Publicacao
	page *apiclient.Pagination
	err  error
}

func (m SearchModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		pubs, page, err := m.client.ListPublicacoes(ctx, filter)

		return searchLoadMsg{pubs: pubs, page: page, err: err}
	}
}
