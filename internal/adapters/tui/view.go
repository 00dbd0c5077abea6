package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ogurasousui/employee-organizer/internal/core/employee"
	"github.com/ogurasousui/employee-organizer/internal/core/wizard"
)

// View は現在の画面を描画します。
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.screen {
	case screenGrid:
		body = m.viewGrid()
	case screenDetail:
		body = m.viewDetail()
	case screenForm:
		body = m.viewForm()
	case screenDone:
		body = m.viewDone()
	default:
		body = m.viewHome()
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Employee Organizer") + "\n\n")
	b.WriteString(body)
	if m.confirm != confirmNone {
		b.WriteString("\n" + m.styles.Danger.Render(m.confirmPrompt()) + "\n")
	}
	if m.toast != "" {
		b.WriteString("\n" + m.styles.Toast.Render(m.toast) + "\n")
	}
	return b.String()
}

func (m Model) confirmPrompt() string {
	if m.confirm == confirmClear {
		return "Clear ALL employee data? (y/n)"
	}
	return fmt.Sprintf("Delete %s permanently? (y/n)", m.confirmTarget)
}

func (m Model) viewHome() string {
	lines := []string{
		"Create, search and maintain employee records.",
		"",
		m.styles.Help.Render("a add employee • l list employees • q quit"),
	}
	if m.state.Step != wizard.StepNone {
		lines = append(lines, m.styles.Help.Render("r resume unfinished entry"))
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m Model) viewGrid() string {
	var b strings.Builder
	b.WriteString(m.search.View() + "\n\n")

	if len(m.records) == 0 {
		b.WriteString(m.styles.Subtle.Render(`No employees yet. Press ctrl+n to add one.`) + "\n")
		b.WriteString("\n" + m.styles.Help.Render("ctrl+n add • esc home") + "\n")
		return b.String()
	}

	visible := m.visible()
	if len(visible) == 0 {
		b.WriteString(m.styles.Subtle.Render("No matches.") + "\n")
	}
	for i, rec := range visible {
		line := lipgloss.JoinHorizontal(lipgloss.Top,
			m.styles.Avatar.Render(avatarBadge(rec)),
			" ",
			fmt.Sprintf("%s\n%s • %s", rec.FullName, rec.EmployeeID, rec.Designation),
		)
		if i == m.cursor {
			line = m.styles.Selected.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + m.styles.Help.Render("↑/↓ select • enter view • ctrl+e edit • ctrl+d delete • ctrl+n add • ctrl+x clear all • esc home") + "\n")
	return b.String()
}

func (m Model) viewDetail() string {
	rec := m.detail
	head := fmt.Sprintf("%s %s  %s", m.styles.Avatar.Render(avatarBadge(rec)), m.styles.Title.Render(rec.FullName), m.styles.Subtle.Render("("+rec.EmployeeID+")"))

	rows := []string{head, ""}
	row := func(label, value string) {
		rows = append(rows, m.styles.Label.Render(label)+" "+value)
	}
	row("Designation", rec.Designation)
	row("Department", rec.Department)
	row("Joining", rec.JoinDate)
	row("Location", rec.Location)
	row("Salary", FormatSalary(rec.Salary))
	rows = append(rows, m.styles.Subtle.Render(strings.Repeat("─", 30)))
	row("Phone", rec.Phone)
	row("Email", rec.Email)
	row("DOB", rec.DOB)
	row("Address", rec.Address)

	card := m.styles.Card.Render(strings.Join(rows, "\n"))
	return card + "\n" + m.styles.Help.Render("e edit • d delete • esc back") + "\n"
}

func (m Model) viewForm() string {
	var b strings.Builder
	b.WriteString(m.viewStepper() + "\n\n")

	if m.state.Editing() {
		b.WriteString(m.styles.Subtle.Render("Editing "+m.state.EditTarget) + "\n\n")
	}

	if m.state.Step == wizard.Step2Official {
		b.WriteString(m.official.render(m.styles))
		b.WriteString("\n" + m.styles.Help.Render("enter save • ctrl+b back • tab next field • esc cancel") + "\n")
		return b.String()
	}

	b.WriteString(m.personal.render(m.styles))
	if m.state.Avatar != "" {
		b.WriteString(m.styles.Subtle.Render("  avatar selected") + "\n")
	}
	b.WriteString("\n" + m.styles.Help.Render("enter next • tab next field • esc cancel") + "\n")
	return b.String()
}

func (m Model) viewStepper() string {
	steps := []struct {
		step  wizard.Step
		label string
	}{
		{wizard.Step1Personal, "1 Personal"},
		{wizard.Step2Official, "2 Official"},
		{wizard.Step3Done, "3 Done"},
	}
	parts := make([]string, 0, len(steps))
	for _, s := range steps {
		style := m.styles.StepPending
		if s.step == m.state.Step {
			style = m.styles.StepActive
		}
		parts = append(parts, style.Render(s.label))
	}
	return strings.Join(parts, m.styles.Subtle.Render(" › "))
}

func (m Model) viewDone() string {
	return m.viewStepper() + "\n\n" + m.styles.Done.Render(m.done) + "\n\n" +
		m.styles.Help.Render("a add another • enter list employees") + "\n"
}

// FormatSalary は給与を表示用に整形します。未入力の場合は "-" を表示します。
func FormatSalary(salary string) string {
	if strings.TrimSpace(salary) == "" {
		return "₹ -"
	}
	return "₹ " + salary
}

func avatarBadge(rec employee.Record) string {
	if rec.Avatar != "" {
		return "▣"
	}
	return rec.Initials()
}
