package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/juscash/djetracker/internal/apiclient"
)

type DetailModel struct {
	CommonModel
	client *apiclient.Client

	pub     apiclient.Publicacao
	loading bool
	err     error
}

func NewDetailModel(client *apiclient.Client, pub apiclient.Publicacao) DetailModel {
	return DetailModel{client: client, pub: pub}
}

func (m DetailModel) Title() string     { return "Detalhes da Publicação" }
func (m DetailModel) ShortHelp() string { return "Esc: voltar | r: atualizar" }

func (m DetailModel) Init() tea.Cmd {
	return nil
}

func (m DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case detailLoadMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.pub = *msg.pub

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.reloadCmd()
		}
	}

	return m, nil
}

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Width(24)
	faintStyle = lipgloss.NewStyle().Faint(true)
)

func (m DetailModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Atualizando...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Erro: %v", m.err))
	}

	pub := m.pub

	row := func(label, value string) string {
		return labelStyle.Render(label) + value
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(pub.NumeroProcesso),
		"",
		row("Status", StatusLabel(pub.Status)),
		row("Disponibilização", FormatDate(pub.DataDisponibilizacao)),
		row("Autores", pub.Autores),
		row("Réu", pub.Reu),
		row("Advogados", pub.Advogados),
		row("Fonte", pub.Fonte),
		"",
		row("Valor principal bruto", FormatValor(pub.ValorPrincipalBruto)),
		row("Valor principal líquido", FormatValor(pub.ValorPrincipalLiquido)),
		row("Juros moratórios", FormatValor(pub.ValorJurosMoratorios)),
		row("Honorários", FormatValor(pub.HonorariosAdvocaticios)),
		"",
		labelStyle.Render("Conteúdo"),
		wrap(pub.Conteudo, 80),
	}

	if pub.TermosEncontrados != "" {
		lines = append(lines, "", row("Termos encontrados", pub.TermosEncontrados))
	}

	lines = append(lines, "",
		faintStyle.Render(fmt.Sprintf("Extraída em %s | Atualizada em %s",
			FormatDate(pub.DataExtracao), FormatDate(pub.UpdatedAt))),
	)

	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
}

func wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}

type detailLoadMsg struct {
	pub *apiclient.Publicacao
	err error
}

func (m DetailModel) reloadCmd() tea.Cmd {
	id := m.pub.ID

	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		pub, err := m.client.GetPublicacao(ctx, id)

		return detailLoadMsg{pub: pub, err: err}
	}
}
