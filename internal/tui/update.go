package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/avermeer/jobdeck/internal/api"
)

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.saving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancelView()
			m.quitting = true
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case loginDoneMsg:
		m.loggingIn = false
		if msg.err != nil {
			m.lastError = msg.err.Error()
			return m, nil
		}
		m.passwordInput.SetValue("")
		return m.navigate(routeViews[msg.route])

	case logoutDoneMsg:
		return m.navigate(routeViews[msg.route])

	case jobsLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.lastError = msg.err.Error()
			return m, nil
		}
		m.jobsTable = newJobsTable(msg.jobs, m.tableHeight())
		return m, nil

	case sourcesLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.lastError = msg.err.Error()
			return m, nil
		}
		m.sourcesTable = newSourcesTable(msg.sources, m.tableHeight())
		return m, nil

	case usersLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.lastError = msg.err.Error()
			return m, nil
		}
		m.users = msg.users
		m.usersTable = newUsersTable(msg.users, m.tableHeight())
		return m, nil

	case grantsLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.lastError = msg.err.Error()
			return m, nil
		}
		m.workingSet = msg.ws
		return m, nil

	case applyDoneMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.saving = false
		if err := msg.result.Err(); err != nil {
			// The editor stays open so the remaining edits can be retried.
			m.lastError = err.Error()
			m.saveNotice = ""
			return m, nil
		}
		m.lastError = ""
		m.saveNotice = "grants saved"
		return m, nil
	}

	return m.updateFocused(msg)
}

// handleKey dispatches a key press to the current view
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.view == ViewLogin {
		return m.handleLoginKey(msg)
	}

	switch msg.String() {
	case "q":
		m.cancelView()
		m.quitting = true
		return m, tea.Quit
	case "d":
		return m.navigate(ViewDashboard)
	case "j":
		return m.navigate(ViewJobs)
	case "s":
		if m.view == ViewGrants {
			break
		}
		return m.navigate(ViewSources)
	case "u":
		return m.navigate(ViewUsers)
	case "l":
		m.loggingIn = false
		return m, m.logout()
	case "esc":
		if m.view == ViewGrants || m.view == ViewUnauthorized {
			return m.navigate(m.prevView)
		}
		return m.navigate(ViewDashboard)
	case "r":
		return m.navigate(m.view)
	}

	switch m.view {
	case ViewUsers:
		return m.handleUsersKey(msg)
	case ViewGrants:
		return m.handleGrantsKey(msg)
	}
	return m.updateFocused(msg)
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.loginFocus = (m.loginFocus + 1) % 2
		if m.loginFocus == 0 {
			m.usernameInput.Focus()
			m.passwordInput.Blur()
		} else {
			m.usernameInput.Blur()
			m.passwordInput.Focus()
		}
		return m, nil
	case "enter":
		if m.loggingIn {
			return m, nil
		}
		if m.usernameInput.Value() == "" || m.passwordInput.Value() == "" {
			m.lastError = "username and password are required"
			return m, nil
		}
		m.loggingIn = true
		m.lastError = ""
		return m, m.login()
	case "esc":
		m.cancelView()
		m.quitting = true
		return m, tea.Quit
	}
	return m.updateFocused(msg)
}

func (m Model) handleUsersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		cursor := m.usersTable.Cursor()
		if cursor >= 0 && cursor < len(m.users) {
			return m.openGrantEditor(m.users[cursor].ID)
		}
		return m, nil
	}
	return m.updateFocused(msg)
}

func (m Model) handleGrantsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.workingSet == nil || m.saving {
		return m, nil
	}

	catalog := m.workingSet.Catalog()
	switch msg.String() {
	case "up":
		if m.grantIndex > 0 {
			m.grantIndex--
		}
	case "down":
		if m.grantIndex < len(catalog)-1 {
			m.grantIndex++
		}
	case " ":
		if m.grantIndex < len(catalog) {
			if err := m.workingSet.Toggle(catalog[m.grantIndex].ID); err != nil {
				m.lastError = err.Error()
			} else {
				m.lastError = ""
				m.saveNotice = ""
			}
		}
	case "s", "enter":
		if !m.workingSet.Dirty() {
			m.saveNotice = "nothing to save"
			return m, nil
		}
		m.saving = true
		m.lastError = ""
		m.saveNotice = ""
		return m, tea.Batch(m.applyGrants(), m.spinner.Tick)
	}
	return m, nil
}

// updateFocused forwards a message to whichever component owns focus
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ViewLogin:
		if m.loginFocus == 0 {
			m.usernameInput, cmd = m.usernameInput.Update(msg)
		} else {
			m.passwordInput, cmd = m.passwordInput.Update(msg)
		}
	case ViewJobs:
		m.jobsTable, cmd = m.jobsTable.Update(msg)
	case ViewSources:
		m.sourcesTable, cmd = m.sourcesTable.Update(msg)
	case ViewUsers:
		m.usersTable, cmd = m.usersTable.Update(msg)
	}
	return m, cmd
}

func (m Model) tableHeight() int {
	if m.height > 10 {
		return m.height - 8
	}
	return 10
}

// Table constructors

func newJobsTable(jobs []api.Job, height int) table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Name", Width: 28},
		{Title: "Trigger", Width: 22},
		{Title: "Callback", Width: 32},
	}
	rows := make([]table.Row, 0, len(jobs))
	for _, job := range jobs {
		rows = append(rows, table.Row{
			strconv.FormatInt(job.ID, 10),
			job.Name,
			job.TriggerType,
			job.CallbackURL,
		})
	}
	return newTable(columns, rows, height)
}

func newSourcesTable(sources []api.Source, height int) table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Code", Width: 16},
		{Title: "Name", Width: 28},
		{Title: "Type", Width: 18},
	}
	rows := make([]table.Row, 0, len(sources))
	for _, source := range sources {
		rows = append(rows, table.Row{
			strconv.FormatInt(source.ID, 10),
			source.Code,
			source.Name,
			source.SourceType,
		})
	}
	return newTable(columns, rows, height)
}

func newUsersTable(users []api.User, height int) table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Username", Width: 20},
		{Title: "Email", Width: 28},
		{Title: "Active", Width: 8},
	}
	rows := make([]table.Row, 0, len(users))
	for _, user := range users {
		rows = append(rows, table.Row{
			strconv.FormatInt(user.ID, 10),
			user.Username,
			user.Email,
			strconv.FormatBool(user.Active),
		})
	}
	return newTable(columns, rows, height)
}

func newTable(columns []table.Column, rows []table.Row, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true)
	t.SetStyles(styles)
	return t
}
