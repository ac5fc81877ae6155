package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/skanda/quizquest/internal/backend"
	"github.com/skanda/quizquest/internal/grading"
	"github.com/skanda/quizquest/internal/progression"
	"github.com/skanda/quizquest/internal/router"
	"github.com/skanda/quizquest/internal/screen"
	"github.com/skanda/quizquest/internal/screens/home"
	"github.com/skanda/quizquest/internal/screens/welcome"
	"github.com/skanda/quizquest/internal/store"
	"github.com/skanda/quizquest/internal/ui/layout"
	"github.com/skanda/quizquest/internal/upload"
)

// Options controls how Run assembles the application.
type Options struct {
	// DBPath overrides the default database location.
	DBPath string

	// BackendURL overrides the backend base URL from config.
	BackendURL string

	// Offline replaces the HTTP backend with the built-in mock, for
	// trying the app without a running backend.
	Offline bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	home   *home.HomeScreen
	width  int
	height int
}

func newAppModel(homeScreen *home.HomeScreen) AppModel {
	splash := welcome.New(func() screen.Screen { return homeScreen })
	return AppModel{
		router: router.New(splash),
		home:   homeScreen,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			// A screen mid-operation gets first claim on Esc, e.g. to
			// cancel an upload or confirm leaving a quiz.
			if h, ok := m.router.Active().(screen.EscapeHandler); ok {
				if handled, cmd := h.HandleEscape(); handled {
					return m, cmd
				}
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	level := 0
	accuracy := ""
	if m.home != nil {
		level = m.home.CurrentLevel()
		accuracy = m.home.Accuracy()
	}
	header := layout.RenderHeader(title, level, accuracy, m.width)

	var footerHints []layout.KeyHint
	if provider, ok := active.(screen.KeyHintProvider); ok {
		footerHints = provider.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run wires the application together and starts the Bubble Tea program.
func Run(opts Options) error {
	dbPath := opts.DBPath
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
	}
	if err := store.EnsureDir(dbPath); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	eventRepo := st.EventRepo()
	snapRepo := st.SnapshotRepo()

	var client backend.Client
	if opts.Offline {
		client = backend.NewOfflineMockClient()
	} else {
		cfg := backend.ConfigFromEnv()
		if opts.BackendURL != "" {
			cfg.BaseURL = opts.BackendURL
		}
		client = backend.NewHTTPClient(cfg)
	}
	client = backend.WithLogging(client, eventRepo)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snap, err := snapRepo.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load progress snapshot: %v\n", err)
		snap = nil
	}

	progOpts := []progression.Option{}
	if levels, err := client.Levels(ctx); err == nil {
		progOpts = append(progOpts, progression.WithCatalog(catalogEntries(levels)))
	} else {
		fmt.Fprintf(os.Stderr, "warning: failed to fetch level catalog: %v\n", err)
	}
	prog := progression.Restore(snap, progOpts...)

	grader := grading.NewRouter(client)
	controller := upload.NewController(client, upload.WithEventRepo(eventRepo))

	homeScreen := home.New(client, eventRepo, snapRepo, controller, prog, grader)

	p := tea.NewProgram(newAppModel(homeScreen))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

func catalogEntries(levels []backend.Level) []progression.CatalogEntry {
	entries := make([]progression.CatalogEntry, 0, len(levels))
	for _, l := range levels {
		entries = append(entries, progression.CatalogEntry{
			Number:          l.Number,
			Title:           l.Title,
			Difficulty:      l.Difficulty,
			ObjectiveCount:  l.ObjectiveCount,
			SubjectiveCount: l.SubjectiveCount,
		})
	}
	return entries
}
