package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"chitravaani/internal/domain"
)

// QAPort is the TUI-facing subset of the question answering service.
type QAPort interface {
	AnswerQuestion(ctx context.Context, question string) (domain.Answer, error)
}

// ExampleQuestions are bound to F1..F4.
var ExampleQuestions = []string{
	"Who directed Baahubali: The Beginning?",
	"List songs from Baahubali: The Beginning",
	"Who composed the music for Baahubali: The Beginning?",
	"What awards did Baahubali: The Beginning win?",
}

type answerMsg struct {
	question string
	answer   domain.Answer
	err      error
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	service   QAPort
	input     textinput.Model
	viewport  viewport.Model
	answer    *domain.Answer
	subtitle  string
	status    string
	cursor    int
	ready     bool
	busy      bool
	lastQuery string
}

// New creates a new TUI model instance. subtitle is shown under the header.
func New(service QAPort, subtitle string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about a movie and press Enter (F1-F4 for examples)"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{service: service, input: ti, viewport: vp, subtitle: subtitle, status: "Ready. Type a question."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around answer and question boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + subtitle
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderAnswer())
		return m, nil
	case answerMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			m.answer = nil
		} else {
			a := msg.answer
			m.answer = &a
			m.cursor = 0
			m.lastQuery = msg.question
			m.status = statusFor(a)
		}
		m.viewport.SetContent(m.renderAnswer())
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "f1", "f2", "f3", "f4":
			i := int(msg.String()[1] - '1')
			m.input.SetValue(ExampleQuestions[i])
			m.input.CursorEnd()
			return m, nil
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.busy {
				m.busy = true
				m.status = fmt.Sprintf("Answering %q...", q)
				return m, m.ask(q)
			}
		case "down":
			if n := m.citationCount(); n > 0 {
				m.cursor = (m.cursor + 1) % n
				m.viewport.SetContent(m.renderAnswer())
				return m, nil
			}
		case "up":
			if n := m.citationCount(); n > 0 {
				m.cursor = (m.cursor - 1 + n) % n
				m.viewport.SetContent(m.renderAnswer())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) ask(q string) tea.Cmd {
	return func() tea.Msg {
		a, err := m.service.AnswerQuestion(context.Background(), q)
		return answerMsg{question: q, answer: a, err: err}
	}
}

// View renders the TUI layout and current answer.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Chitravaani Movie Q&A")
	subtitle := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.subtitle)
	input := queryBoxStyle.Render(m.input.View())
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	if m.answer != nil && m.answer.Refusal == domain.RefusalGenerationFailed {
		statusStyle = errorStyle
	}
	status := statusStyle.Render(m.status)
	answer := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + subtitle + "\n" + answer + "\n" + input + "\n" + status
}

func statusFor(a domain.Answer) string {
	switch a.Refusal {
	case domain.RefusalGenerationFailed:
		return "Answer generation failed; this does not mean the dataset lacks the answer."
	case domain.RefusalNoEvidence:
		return "No supporting records found."
	default:
		return fmt.Sprintf("Answered from %d record(s). Up/Down to browse sources.", len(a.Citations))
	}
}

func (m Model) citationCount() int {
	if m.answer == nil {
		return 0
	}
	return len(m.answer.Citations)
}

func (m Model) renderAnswer() string {
	if m.answer == nil {
		return "No answer yet."
	}
	var b strings.Builder
	b.WriteString(answerStyle.Render(m.answer.Text))
	if len(m.answer.Citations) == 0 {
		return b.String()
	}
	b.WriteString("\n\nSources:\n")
	for i, id := range m.answer.Identifiers() {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%d. %s\n", marker, i+1, id)
	}
	r := m.answer.Citations[m.cursor]
	b.WriteString("\n")
	b.WriteString(highlightBestLine(r.Text, m.lastQuery))
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	answerStyle    = lipgloss.NewStyle().Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	unicodeWordRe  = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}\p{N}]+)*`)
)

// highlightBestLine marks the record line sharing the most words with the question.
func highlightBestLine(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return text
	}
	bestIdx := -1
	bestScore := 0
	for i, l := range lines {
		score := tokenOverlapScore(qTokens, l)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		lines[bestIdx] = highlightStyle.Render(lines[bestIdx])
	}
	return strings.Join(lines, "\n")
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	tokens := unicodeWordRe.FindAllString(strings.ToLower(sentence), -1)
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}
