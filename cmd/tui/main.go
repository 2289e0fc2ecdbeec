package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/juscash/djetracker/cmd/tui/internal/view"
	"github.com/juscash/djetracker/internal/apiclient"
)

type model struct {
	client *apiclient.Client
	user   *apiclient.User

	currentView View

	// detailFrom is the view the open detail screen returns to.
	detailFrom View

	loginView  view.LoginModel
	boardView  view.BoardModel
	searchView view.SearchModel
	detailView view.DetailModel
	crawlView  view.CrawlModel
}

type View int

const (
	ViewLogin  View = 0
	ViewMenu   View = 1
	ViewBoard  View = 2
	ViewSearch View = 3
	ViewDetail View = 4
	ViewCrawl  View = 5
)

func initialModel() model {
	_ = godotenv.Load()

	baseURL := os.Getenv("API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	client := apiclient.New(baseURL)

	return model{
		client:      client,
		currentView: ViewLogin,
		loginView:   view.NewLoginModel(client),
	}
}

func (m model) Init() tea.Cmd {
	return m.loginView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewBoard
				m.boardView = view.NewBoardModel(m.client)

				return m, m.boardView.Init()
			case "2":
				m.currentView = ViewSearch
				m.searchView = view.NewSearchModel(m.client)

				return m, m.searchView.Init()
			case "3":
				m.currentView = ViewCrawl
				m.crawlView = view.NewCrawlModel(m.client)

				return m, m.crawlView.Init()
			}
		}

	case view.LoggedInMsg:
		m.user = msg.User
		m.currentView = ViewMenu

		return m, nil

	case view.OpenDetailMsg:
		m.detailFrom = m.currentView
		m.currentView = ViewDetail
		m.detailView = view.NewDetailModel(m.client, msg.Publicacao)

		return m, m.detailView.Init()

	case view.BackMsg:
		switch m.currentView {
		case ViewDetail:
			m.currentView = m.detailFrom
			if m.detailFrom == ViewBoard {
				return m, m.boardView.Init()
			}

			return m, m.searchView.Init()
		default:
			m.currentView = ViewMenu
			return m, nil
		}
	}

	switch m.currentView {
	case ViewLogin:
		var newModel tea.Model
		newModel, cmd = m.loginView.Update(msg)
		m.loginView = newModel.(view.LoginModel)
	case ViewBoard:
		var newModel tea.Model
		newModel, cmd = m.boardView.Update(msg)
		m.boardView = newModel.(view.BoardModel)
	case ViewSearch:
		var newModel tea.Model
		newModel, cmd = m.searchView.Update(msg)
		m.searchView = newModel.(view.SearchModel)
	case ViewDetail:
		var newModel tea.Model
		newModel, cmd = m.detailView.Update(msg)
		m.detailView = newModel.(view.DetailModel)
	case ViewCrawl:
		var newModel tea.Model
		newModel, cmd = m.crawlView.Update(msg)
		m.crawlView = newModel.(view.CrawlModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewMenu:
		greeting := "DJE Tracker"
		if m.user != nil {
			greeting += " | " + m.user.Name
		}

		return lipgloss.NewStyle().Padding(2).Render(
			greeting + "\n\n" +
				"1. Quadro de Publicações\n" +
				"2. Pesquisa de Publicações\n" +
				"3. Busca Automática\n\n" +
				"q. Sair",
		)
	case ViewBoard:
		return m.boardView.View()
	case ViewSearch:
		return m.searchView.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewCrawl:
		return m.crawlView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
