package tui

import (
	"fmt"
	"strings"

	"github.com/avermeer/jobdeck/internal/gate"
)

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	switch m.view {
	case ViewLogin:
		b.WriteString(m.renderLogin())
	case ViewDashboard:
		b.WriteString(m.renderDashboard())
	case ViewJobs:
		b.WriteString(m.renderJobs())
	case ViewSources:
		b.WriteString(m.renderSources())
	case ViewUsers:
		b.WriteString(m.renderUsers())
	case ViewGrants:
		b.WriteString(m.renderGrants())
	case ViewUnauthorized:
		b.WriteString(m.renderUnauthorized())
	}

	if m.lastError != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render("✗ " + m.lastError))
	}
	if m.saveNotice != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Success.Render("✓ " + m.saveNotice))
	}

	return b.String()
}

func (m Model) renderLogin() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("jobdeck"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("sign in to the scheduler console"))
	b.WriteString("\n\n")
	b.WriteString("  " + m.usernameInput.View())
	b.WriteString("\n")
	b.WriteString("  " + m.passwordInput.View())
	b.WriteString("\n")
	if m.loggingIn {
		b.WriteString("\n" + m.styles.Muted.Render("  signing in..."))
	}
	b.WriteString(m.renderHelp("tab", "switch field", "enter", "sign in", "esc", "quit"))
	return b.String()
}

func (m Model) renderDashboard() string {
	snapshot := m.store.Snapshot()

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("jobdeck"))
	b.WriteString("\n")

	if snapshot.Profile != nil {
		b.WriteString(fmt.Sprintf("signed in as %s <%s>\n", snapshot.Profile.Username, snapshot.Profile.Email))
	} else {
		b.WriteString("signed in (profile unavailable)\n")
	}

	if len(snapshot.Capabilities) > 0 {
		b.WriteString(m.styles.Muted.Render("capabilities: " + strings.Join(snapshot.Capabilities, ", ")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for _, entry := range []struct{ key, desc string }{
		{"j", "jobs"},
		{"s", "sources"},
		{"u", "users and grants"},
		{"l", "log out"},
		{"q", "quit"},
	} {
		b.WriteString("  " + m.styles.Key.Render(entry.key) + "  " + m.styles.KeyDesc.Render(entry.desc) + "\n")
	}
	return b.String()
}

func (m Model) renderJobs() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Jobs"))
	b.WriteString("\n")
	if m.loading {
		b.WriteString(m.spinner.View() + m.styles.Muted.Render("loading jobs..."))
	} else {
		b.WriteString(m.jobsTable.View())
	}
	b.WriteString(m.renderHelp("r", "reload", "esc", "dashboard", "q", "quit"))
	return b.String()
}

func (m Model) renderSources() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Sources"))
	b.WriteString("\n")
	if m.loading {
		b.WriteString(m.spinner.View() + m.styles.Muted.Render("loading sources..."))
	} else {
		b.WriteString(m.sourcesTable.View())
	}
	b.WriteString(m.renderHelp("r", "reload", "esc", "dashboard", "q", "quit"))
	return b.String()
}

func (m Model) renderUsers() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Users"))
	b.WriteString("\n")
	if m.loading {
		b.WriteString(m.spinner.View() + m.styles.Muted.Render("loading users..."))
	} else {
		b.WriteString(m.usersTable.View())
	}
	b.WriteString(m.renderHelp("enter", "edit grants", "r", "reload", "esc", "dashboard"))
	return b.String()
}

func (m Model) renderGrants() string {
	var b strings.Builder

	if m.loading || m.workingSet == nil {
		b.WriteString(m.styles.Title.Render("Grants"))
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + m.styles.Muted.Render("loading grants..."))
		return b.String()
	}

	user := m.workingSet.User()
	b.WriteString(m.styles.Title.Render("Grants: " + user.Username))
	b.WriteString("\n")

	for i, grant := range m.workingSet.Catalog() {
		marker := "[ ]"
		if m.workingSet.Desired(grant.ID) {
			marker = "[x]"
		}
		line := fmt.Sprintf("%s %s", marker, grant.Name)
		if i == m.grantIndex {
			line = m.styles.Highlighted.Render(line)
		}
		b.WriteString("  " + line + "\n")
	}

	if m.saving {
		b.WriteString("\n" + m.spinner.View() + m.styles.Muted.Render("saving..."))
	} else if m.workingSet.Dirty() {
		plan := m.workingSet.Plan()
		b.WriteString("\n" + m.styles.Warning.Render(
			fmt.Sprintf("unsaved changes: %d to assign, %d to revoke", len(plan.ToAssign), len(plan.ToRevoke))))
	}

	b.WriteString(m.renderHelp("space", "toggle", "s", "save", "esc", "back"))
	return b.String()
}

func (m Model) renderUnauthorized() string {
	snapshot := m.store.Snapshot()
	missing := gate.Missing(snapshot, viewRequirements[ViewUsers]...)

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Unauthorized"))
	b.WriteString("\n")
	b.WriteString(m.styles.Error.Render("this view requires capabilities your session does not have"))
	b.WriteString("\n")
	if len(missing) > 0 {
		b.WriteString(m.styles.Muted.Render("missing: " + strings.Join(missing, ", ")))
		b.WriteString("\n")
	}
	b.WriteString(m.renderHelp("esc", "back", "l", "log out", "q", "quit"))
	return b.String()
}

// renderHelp renders key/description pairs as a help line
func (m Model) renderHelp(pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, m.styles.Key.Render(pairs[i])+" "+m.styles.KeyDesc.Render(pairs[i+1]))
	}
	return "\n" + m.styles.Help.Render(strings.Join(parts, "  •  "))
}
