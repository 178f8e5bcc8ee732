package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/todo/internal/logger"
	"github.com/tgienger/todo/internal/ui/views"
)

// Store is the storage the UI works against
type Store = views.Store

// refreshMsg fires periodically so overdue markers stay current
type refreshMsg time.Time

type App struct {
	taskList *views.TaskListView
	refresh  time.Duration
}

// Creates a new application. refresh is how often the task list is re-read
// from the store; zero disables the timer.
func NewApp(store Store, attacher views.Attacher, refresh time.Duration) *App {
	return &App{
		taskList: views.NewTaskListView(store, attacher),
		refresh:  refresh,
	}
}

func (a *App) tick() tea.Cmd {
	if a.refresh <= 0 {
		return nil
	}
	return tea.Tick(a.refresh, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.taskList.Init(), a.tick())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(refreshMsg); ok {
		logger.Debug("periodic refresh at %s", time.Time(msg).Format(time.TimeOnly))
		return a, tea.Batch(a.taskList.Reload(), a.tick())
	}

	_, cmd := a.taskList.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	return a.taskList.View()
}
