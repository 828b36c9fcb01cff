package render

import (
	"fmt"
	"strings"

	"clementus360/study-assistant/prefs"
	"clementus360/study-assistant/quiz"
	"clementus360/study-assistant/types"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of styles for one theme.
type Palette struct {
	Header    lipgloss.Style
	Title     lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Selected  lipgloss.Style
	Box       lipgloss.Style
}

func ForTheme(theme prefs.ThemeName) Palette {
	accent, text, muted := lipgloss.Color("62"), lipgloss.Color("236"), lipgloss.Color("243")
	if theme == prefs.ThemeDark {
		accent, text, muted = lipgloss.Color("212"), lipgloss.Color("252"), lipgloss.Color("240")
	}

	return Palette{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(text),
		User: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		Assistant: lipgloss.NewStyle().
			Foreground(text),
		Muted: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
	}
}

func (p Palette) Heading(text string) string {
	return p.Header.Render(text)
}

func (p Palette) Failure(err error) string {
	return p.Error.Render(types.ErrorText(err))
}

// Transcript renders chat messages oldest first, with a typing marker while
// a reply is pending.
func (p Palette) Transcript(messages []types.Message, pending bool) string {
	if len(messages) == 0 && !pending {
		return p.Muted.Render("No messages yet. Ask something about your document.")
	}

	var b strings.Builder
	for _, m := range messages {
		if m.Role == types.RoleUser {
			b.WriteString(p.User.Render("You: "))
		} else {
			b.WriteString(p.Title.Render("Assistant: "))
		}
		b.WriteString(p.Assistant.Render(m.Text))
		b.WriteString("\n")
	}
	if pending {
		b.WriteString(p.Muted.Render("Assistant is typing..."))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Artifact renders an analysis result box.
func (p Palette) Artifact(title, text string, loading bool) string {
	if loading {
		return p.Muted.Render("Analyzing...")
	}
	if text == "" {
		return p.Muted.Render("Nothing analyzed yet.")
	}
	return p.Box.Render(p.Title.Render(title) + "\n\n" + p.Assistant.Render(text))
}

// Quiz renders the questions with the recorded answers and, once submitted,
// the score.
func (p Palette) Quiz(items []types.QuizItem, answers map[int]string, score *quiz.Score) string {
	if len(items) == 0 {
		return p.Muted.Render("No quiz yet. Upload a document to generate one.")
	}

	var b strings.Builder
	for i, item := range items {
		if item.IsSentinel() {
			b.WriteString(p.Error.Render(item.Prompt))
			b.WriteString("\n")
			continue
		}
		b.WriteString(p.Title.Render(fmt.Sprintf("%d. %s", i+1, item.Prompt)))
		b.WriteString("\n")
		for _, option := range item.Options {
			marker := "( )"
			style := p.Assistant
			if answers[i] == option {
				marker = "(x)"
				style = p.Selected
			}
			b.WriteString("   " + style.Render(marker+" "+option) + "\n")
		}
		if score != nil {
			if answers[i] == item.CorrectAnswer {
				b.WriteString("   " + p.Success.Render("Correct") + "\n")
			} else {
				b.WriteString("   " + p.Error.Render("Answer: "+item.CorrectAnswer) + "\n")
			}
		}
	}
	if score != nil {
		b.WriteString(p.Success.Render(fmt.Sprintf("Score: %d/%d", score.Correct, score.Total)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// History renders the activity sidebar, newest first.
func (p Palette) History(entries []types.HistoryEntry) string {
	if len(entries) == 0 {
		return p.Muted.Render("No activity yet.")
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, p.Title.Render(e.Title)+"  "+p.Muted.Render(e.Timestamp))
	}
	return strings.Join(lines, "\n")
}

// Identity renders the signed-in user line.
func (p Palette) Identity(s *types.Session) string {
	if s == nil {
		return p.Muted.Render("Not signed in.")
	}
	name := s.DisplayName
	if name == "" {
		name = s.Email
	}
	return "Signed in as " + p.Selected.Render(name) + " " + p.Muted.Render("<"+s.Email+">")
}
