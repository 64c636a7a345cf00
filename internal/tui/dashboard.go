package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stillpoint/breathe/internal/model"
	"github.com/stillpoint/breathe/internal/storage"
)

// tickMsg is sent when the timer ticks.
type tickMsg time.Time

// refreshMsg is sent when data needs to be refreshed.
type refreshMsg struct{}

// errMsg is sent when an error occurs.
type errMsg struct {
	err error
}

// DashboardModel is the main bubbletea model for the dashboard.
type DashboardModel struct {
	// Data
	stats     *model.UserStats
	sessions  []*model.SessionRecord
	unlocked  map[string]bool
	reminders []*model.Reminder

	// Repositories
	sessionRepo     *storage.SessionRepo
	statsRepo       *storage.StatsRepo
	achievementRepo *storage.AchievementRepo
	reminderRepo    *storage.ReminderRepo

	ownerKey string

	// UI state
	width      int
	height     int
	err        error
	message    string
	messageExp time.Time

	// Configuration
	refreshInterval time.Duration
	maxSessions     int
}

// DashboardConfig holds configuration for the dashboard.
type DashboardConfig struct {
	SessionRepo     *storage.SessionRepo
	StatsRepo       *storage.StatsRepo
	AchievementRepo *storage.AchievementRepo
	ReminderRepo    *storage.ReminderRepo
	OwnerKey        string
	RefreshInterval time.Duration
	MaxSessions     int
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel(config DashboardConfig) *DashboardModel {
	if config.RefreshInterval == 0 {
		config.RefreshInterval = time.Second
	}
	if config.MaxSessions == 0 {
		config.MaxSessions = 5
	}

	return &DashboardModel{
		sessionRepo:     config.SessionRepo,
		statsRepo:       config.StatsRepo,
		achievementRepo: config.AchievementRepo,
		reminderRepo:    config.ReminderRepo,
		ownerKey:        config.OwnerKey,
		refreshInterval: config.RefreshInterval,
		maxSessions:     config.MaxSessions,
		unlocked:        make(map[string]bool),
	}
}

// Init initializes the model.
func (m *DashboardModel) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(),
		m.refreshCmd(),
	)
}

// Update handles messages and updates the model.
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		// Clear expired messages
		if !m.messageExp.IsZero() && time.Now().After(m.messageExp) {
			m.message = ""
			m.messageExp = time.Time{}
		}
		return m, m.tickCmd()

	case refreshMsg:
		m.loadData()
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input.
func (m *DashboardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "b":
		// Guided sessions take over the terminal, so point at the CLI
		m.setMessage("Use 'breathe start [pattern]' to begin a session", 3*time.Second)
		return m, nil

	case "r":
		m.loadData()
		m.setMessage("Refreshed", time.Second)
		return m, nil
	}

	return m, nil
}

// View renders the dashboard.
func (m *DashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string

	sections = append(sections, m.renderHeader())

	if m.err != nil {
		errBox := StyleError.Render(fmt.Sprintf("Error: %v", m.err))
		sections = append(sections, errBox)
	}

	if m.message != "" {
		msgBox := StyleWarning.Render(m.message)
		sections = append(sections, msgBox)
	}

	statsComp := NewStatsComponent(m.stats, m.width)
	sections = append(sections, statsComp.View())

	sessionsComp := NewSessionsComponent(m.sessions, m.width, m.maxSessions)
	sections = append(sections, sessionsComp.View())

	achievementsComp := NewAchievementsComponent(m.unlocked, m.stats, m.width)
	sections = append(sections, achievementsComp.View())

	remindersComp := NewRemindersComponent(m.reminders, m.width)
	if view := remindersComp.View(); view != "" {
		sections = append(sections, view)
	}

	sections = append(sections, HelpBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the dashboard header.
func (m *DashboardModel) renderHeader() string {
	title := StyleTitle.Render("Breathe Dashboard")
	now := time.Now().Format("Mon Jan 2, 15:04:05")
	timeStr := StyleSubtitle.Render(now)

	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", timeStr) + "\n"
}

// loadData loads all data from repositories.
func (m *DashboardModel) loadData() {
	stats, err := m.statsRepo.Get(m.ownerKey)
	if err != nil {
		m.err = err
		return
	}
	m.stats = stats

	sessions, err := m.sessionRepo.ListFiltered(storage.SessionFilter{
		Limit: m.maxSessions,
	})
	if err != nil {
		m.err = err
		return
	}
	m.sessions = sessions

	unlocked, err := m.achievementRepo.UnlockedKeys()
	if err != nil {
		m.err = err
		return
	}
	m.unlocked = unlocked

	// Reminders are optional, don't fail on error
	reminders, err := m.reminderRepo.ListPending()
	if err != nil {
		m.reminders = nil
	} else {
		m.reminders = reminders
	}

	m.err = nil
}

// setMessage sets a temporary message.
func (m *DashboardModel) setMessage(msg string, duration time.Duration) {
	m.message = msg
	m.messageExp = time.Now().Add(duration)
}

// tickCmd returns a command that sends a tick message.
func (m *DashboardModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd returns a command that sends a refresh message.
func (m *DashboardModel) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return refreshMsg{}
	}
}

// Run starts the dashboard TUI.
func Run(config DashboardConfig) error {
	model := NewDashboardModel(config)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
