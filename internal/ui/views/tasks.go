package views

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/todo/internal/config"
	"github.com/tgienger/todo/internal/export"
	"github.com/tgienger/todo/internal/logger"
	"github.com/tgienger/todo/internal/models"
	"github.com/tgienger/todo/internal/ui/keys"
	"github.com/tgienger/todo/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// FocusArea represents which part of the UI has focus
type FocusArea int

const (
	FocusSearchInput FocusArea = iota
	FocusTagDropdown
	FocusTaskList
	focusCount
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDelete
	confirmClear
)

// TaskListView shows every task, incomplete first
type TaskListView struct {
	store    Store
	attach   Attacher
	allTasks []models.Task // as returned by the store
	tasks    []models.Task // after search and tag filter
	tags     []models.Tag
	styles   *styles.Styles
	keys     keys.KeyMap
	now      func() time.Time

	width  int
	height int

	// UI state
	focus       FocusArea
	cursor      int
	scrollY     int
	selectID    int64 // task to put the cursor on after the next load
	searchInput textinput.Model
	selectedTag string // "" = no filter

	// Tag dropdown state
	tagDropdownOpen bool
	tagCursor       int

	form        taskForm
	viewingTask bool

	confirm          confirmKind
	deleteTargetID   int64
	deleteTargetName string

	exporting   bool
	exportInput textinput.Model

	// One-shot status line, cleared by the next key press
	status    string
	statusErr bool

	showHelpPopup bool
}

// NewTaskListView creates a new task list view
func NewTaskListView(store Store, attacher Attacher) *TaskListView {
	search := textinput.New()
	search.Placeholder = "Search..."
	search.CharLimit = 100

	exportInput := textinput.New()
	exportInput.Placeholder = "tasks.csv"
	exportInput.CharLimit = 1024

	return &TaskListView{
		store:       store,
		attach:      attacher,
		styles:      styles.NewStyles(),
		keys:        keys.DefaultKeyMap(),
		now:         time.Now,
		focus:       FocusTaskList,
		searchInput: search,
		exportInput: exportInput,
		form:        newTaskForm(),
	}
}

// Init loads tasks and tags
func (v *TaskListView) Init() tea.Cmd {
	return v.Reload()
}

// Reload re-reads tasks and tags from the store
func (v *TaskListView) Reload() tea.Cmd {
	return tea.Batch(v.loadTasks, v.loadTags)
}

type tasksLoadedMsg struct {
	tasks []models.Task
}

type tagsLoadedMsg struct {
	tags []models.Tag
}

func (v *TaskListView) loadTasks() tea.Msg {
	tasks, err := v.store.ListTasks()
	if err != nil {
		return err
	}
	return tasksLoadedMsg{tasks: tasks}
}

func (v *TaskListView) loadTags() tea.Msg {
	tags, err := v.store.ListTags()
	if err != nil {
		return err
	}
	return tagsLoadedMsg{tags: tags}
}

func (v *TaskListView) setStatus(msg string, isErr bool) {
	v.status = msg
	v.statusErr = isErr
	if isErr {
		logger.Warn("%s", msg)
	}
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		v.form.desc.SetWidth(clamp(contentWidth-10, 20, 50))
		v.ensureVisible()
		return v, nil

	case tasksLoadedMsg:
		v.allTasks = msg.tasks
		v.applyFilter()
		return v, nil

	case tagsLoadedMsg:
		v.tags = msg.tags
		if v.selectedTag != "" && !v.tagExists(v.selectedTag) {
			v.selectedTag = ""
			v.applyFilter()
		}
		if v.tagCursor > len(v.tags) {
			v.tagCursor = 0
		}
		return v, nil

	case error:
		v.setStatus(msg.Error(), true)
		return v, nil

	case tea.KeyMsg:
		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		v.status = ""

		if v.confirm != confirmNone {
			return v.updateConfirm(msg)
		}

		if v.exporting {
			return v.updateExporting(msg)
		}

		if v.form.open {
			return v.updateEditing(msg)
		}

		if v.viewingTask {
			return v.updateViewingTask(msg)
		}

		if v.tagDropdownOpen {
			return v.updateTagDropdown(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

// applyFilter rebuilds the visible list from the last load, keeping the
// cursor on the same task where possible
func (v *TaskListView) applyFilter() {
	var keepID int64
	if v.cursor < len(v.tasks) {
		keepID = v.tasks[v.cursor].ID
	}
	if v.selectID != 0 {
		keepID = v.selectID
		v.selectID = 0
	}

	query := strings.ToLower(strings.TrimSpace(v.searchInput.Value()))
	tasks := make([]models.Task, 0, len(v.allTasks))
	for _, t := range v.allTasks {
		if v.matches(t, query) {
			tasks = append(tasks, t)
		}
	}
	v.tasks = tasks

	v.cursor = clamp(v.cursor, 0, max(0, len(v.tasks)-1))
	for i, t := range v.tasks {
		if t.ID == keepID {
			v.cursor = i
			break
		}
	}
	v.ensureVisible()
}

func (v *TaskListView) matches(t models.Task, query string) bool {
	if v.selectedTag != "" && !containsFold(t.Tags, v.selectedTag) {
		return false
	}
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), query) ||
		strings.Contains(strings.ToLower(t.Description), query)
}

func (v *TaskListView) tagExists(name string) bool {
	for _, t := range v.tags {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

func (v *TaskListView) current() (models.Task, bool) {
	if v.cursor < 0 || v.cursor >= len(v.tasks) {
		return models.Task{}, false
	}
	return v.tasks[v.cursor], true
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle search input typing first - don't process hotkeys while typing
	if v.focus == FocusSearchInput {
		switch {
		case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter):
			v.searchInput.Blur()
			v.focus = FocusTaskList
			return v, nil
		default:
			var cmd tea.Cmd
			v.searchInput, cmd = v.searchInput.Update(msg)
			v.applyFilter()
			return v, cmd
		}
	}

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		// esc drops any active filter
		v.searchInput.Reset()
		v.selectedTag = ""
		v.applyFilter()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.cycleFocus(1)
		return v, nil

	case msg.String() == "shift+tab":
		v.cycleFocus(-1)
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.focus == FocusTaskList && v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.focus == FocusTaskList && v.cursor < len(v.tasks)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.focus {
		case FocusTagDropdown:
			v.tagDropdownOpen = true
			v.tagCursor = 0
		case FocusTaskList:
			if len(v.tasks) > 0 {
				v.viewingTask = true
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.Edit):
		if task, ok := v.current(); ok && v.focus == FocusTaskList {
			v.startEditTask(task)
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		if task, ok := v.current(); ok && v.focus == FocusTaskList {
			v.askDelete(task)
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle):
		if task, ok := v.current(); ok && v.focus == FocusTaskList {
			return v, v.toggleComplete(task)
		}
		return v, nil

	case key.Matches(msg, v.keys.ClearCompleted):
		for _, t := range v.allTasks {
			if t.Completed {
				v.confirm = confirmClear
				return v, nil
			}
		}
		v.setStatus("No completed tasks", false)
		return v, nil

	case key.Matches(msg, v.keys.Export):
		return v, v.startExport()

	case key.Matches(msg, v.keys.Search):
		v.focus = FocusSearchInput
		v.searchInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Filter):
		v.focus = FocusTagDropdown
		v.tagDropdownOpen = true
		v.tagCursor = 0
		return v, nil

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) updateTagDropdown(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.tagDropdownOpen = false
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.tagCursor > 0 {
			v.tagCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.tagCursor < len(v.tags) { // +1 for "All" option
			v.tagCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.tagCursor == 0 {
			v.selectedTag = ""
		} else {
			v.selectedTag = v.tags[v.tagCursor-1].Name
		}
		v.tagDropdownOpen = false
		v.focus = FocusTaskList
		v.applyFilter()
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) askDelete(task models.Task) {
	v.confirm = confirmDelete
	v.deleteTargetID = task.ID
	v.deleteTargetName = task.Title
}

func (v *TaskListView) toggleComplete(task models.Task) tea.Cmd {
	var err error
	if task.Completed {
		err = v.store.UncompleteTask(task.ID)
	} else {
		err = v.store.CompleteTask(task.ID)
	}
	if err != nil {
		v.setStatus(err.Error(), true)
	}
	v.selectID = task.ID
	return v.loadTasks
}

func (v *TaskListView) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		kind := v.confirm
		v.confirm = confirmNone
		switch kind {
		case confirmDelete:
			if err := v.store.DeleteTask(v.deleteTargetID); err != nil {
				v.setStatus(err.Error(), true)
			} else {
				v.viewingTask = false
				v.setStatus(fmt.Sprintf("Deleted %q", v.deleteTargetName), false)
			}
		case confirmClear:
			n, err := v.store.ClearCompleted()
			if err != nil {
				v.setStatus(err.Error(), true)
			} else {
				v.viewingTask = false
				v.setStatus(fmt.Sprintf("Removed %d completed task(s)", n), false)
			}
		}
		return v, v.Reload()
	case "n", "N", "esc":
		v.confirm = confirmNone
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateViewingTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	task, ok := v.current()
	if !ok {
		v.viewingTask = false
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.viewingTask = false
		return v, nil
	case key.Matches(msg, v.keys.Edit):
		v.viewingTask = false
		v.startEditTask(task)
		return v, textinput.Blink
	case key.Matches(msg, v.keys.Delete):
		v.askDelete(task)
		return v, nil
	case key.Matches(msg, v.keys.Toggle):
		return v, v.toggleComplete(task)
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	}
	return v, nil
}

func (v *TaskListView) startExport() tea.Cmd {
	path, err := v.store.GetSetting(export.LastPathKey)
	if err != nil {
		logger.Warn("reading %s: %v", export.LastPathKey, err)
	}
	if path == "" {
		path = "tasks.csv"
	}
	v.exporting = true
	v.exportInput.SetValue(path)
	v.exportInput.CursorEnd()
	v.exportInput.Focus()
	return textinput.Blink
}

func (v *TaskListView) updateExporting(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.exporting = false
		v.exportInput.Blur()
		return v, nil
	case key.Matches(msg, v.keys.Enter):
		v.exporting = false
		v.exportInput.Blur()
		v.exportTasks(strings.TrimSpace(v.exportInput.Value()))
		return v, nil
	}

	var cmd tea.Cmd
	v.exportInput, cmd = v.exportInput.Update(msg)
	return v, cmd
}

// exportTasks writes every task, not just the filtered ones
func (v *TaskListView) exportTasks(path string) {
	if path == "" {
		v.setStatus("No export path given", true)
		return
	}
	target, err := config.ExpandTilde(path)
	if err != nil {
		v.setStatus(err.Error(), true)
		return
	}
	tasks, err := v.store.ListTasks()
	if err != nil {
		v.setStatus(err.Error(), true)
		return
	}

	err = export.ToFile(target, tasks)
	switch {
	case errors.Is(err, export.ErrNoTasks):
		v.setStatus("No tasks to export", true)
		return
	case err != nil:
		v.setStatus(fmt.Sprintf("Export failed: %v", err), true)
		return
	}

	if err := v.store.SetSetting(export.LastPathKey, path); err != nil {
		logger.Warn("saving %s: %v", export.LastPathKey, err)
	}
	logger.Info("exported %d tasks to %s", len(tasks), target)
	v.setStatus(fmt.Sprintf("Exported %d task(s) to %s", len(tasks), target), false)
}

func (v *TaskListView) cycleFocus(dir int) {
	v.searchInput.Blur()

	v.focus = FocusArea((int(v.focus) + dir + int(focusCount)) % int(focusCount))

	if v.focus == FocusSearchInput {
		v.searchInput.Focus()
	}
}

// visibleItems is how many task rows fit on screen
func (v *TaskListView) visibleItems() int {
	// Each task item is 2 lines + 1 margin = 3 lines
	availableHeight := max(v.height-12, 3)
	return max(availableHeight/3, 1)
}

func (v *TaskListView) ensureVisible() {
	visible := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

// View renders the view
func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirm != confirmNone {
		return v.renderConfirm()
	}

	if v.form.open {
		return v.renderEditForm()
	}

	if v.exporting {
		return v.renderExportPrompt()
	}

	if v.viewingTask {
		return v.renderTaskView()
	}

	var b strings.Builder

	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")

	b.WriteString(v.renderTaskList())

	b.WriteString("\n")
	b.WriteString(v.renderStatus())
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderStatus() string {
	if v.status == "" {
		return ""
	}
	return v.styles.Status(v.status, v.statusErr) + "\n"
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	isNarrow := contentWidth < 60

	searchStyle := s.Input
	if v.focus == FocusSearchInput {
		searchStyle = s.InputFocused
	}
	searchWidth := clamp(contentWidth-8, 10, 30)
	searchBox := searchStyle.Width(searchWidth).Render(v.searchInput.View())

	tagStyle := s.Button
	if v.focus == FocusTagDropdown {
		tagStyle = s.ButtonFocused
	}
	tagLabel := "All"
	if v.selectedTag != "" {
		tagLabel = v.selectedTag
	}
	if !isNarrow {
		tagLabel = "Tags: " + tagLabel
	}
	tagBtn := tagStyle.Render(tagLabel + " ▼")

	open, overdue := 0, 0
	now := v.now()
	for _, t := range v.allTasks {
		if !t.Completed {
			open++
		}
		if t.Overdue(now) {
			overdue++
		}
	}
	titleText := s.Title.Render("Tasks") + " " +
		s.TitleMuted.Render(fmt.Sprintf("%d open", open))
	if overdue > 0 {
		titleText += s.TitleMuted.Render(", ") + s.TaskOverdue.Render(fmt.Sprintf("%d overdue", overdue))
	}

	var header string
	if isNarrow {
		header = lipgloss.JoinVertical(lipgloss.Left, searchBox, tagBtn)
	} else {
		header = lipgloss.JoinHorizontal(lipgloss.Center, searchBox, "  ", tagBtn)
	}

	dropdown := ""
	if v.tagDropdownOpen {
		dropdown = "\n" + v.renderTagDropdown()
	}

	return lipgloss.JoinVertical(lipgloss.Left, titleText, header+dropdown)
}

func (v *TaskListView) renderTagDropdown() string {
	s := v.styles
	var items []string

	allStyle := s.ListItem
	if v.tagCursor == 0 {
		allStyle = s.ListSelected
	}
	items = append(items, allStyle.Render("All"))

	for i, tag := range v.tags {
		itemStyle := s.ListItem
		if v.tagCursor == i+1 {
			itemStyle = s.ListSelected
		}
		items = append(items, itemStyle.Render("# "+tag.Name))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, items...)
	return s.Panel.Render(content)
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles

	if len(v.tasks) == 0 {
		if len(v.allTasks) > 0 {
			return s.TitleMuted.Render("No tasks match the filter. Press esc to clear it.")
		}
		return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	var items []string
	endIdx := min(v.scrollY+v.visibleItems(), len(v.tasks))
	now := v.now()

	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTaskItem(v.tasks[i], i == v.cursor && v.focus == FocusTaskList, now))
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TaskListView) renderTaskItem(task models.Task, selected bool, now time.Time) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	width := max(contentWidth-4, 20)

	checkbox := "[ ] "
	title := s.TaskTitle.Render(task.Title)
	if task.Completed {
		checkbox = "[x] "
		title = s.TaskCompleted.Render(task.Title)
	}

	overdue := task.Overdue(now)
	label := "due "
	if overdue {
		label = "overdue "
	}
	detail := s.Due(overdue).Render(label + task.Deadline.Format(models.DisplayLayout))
	if len(task.Tags) > 0 {
		var tagStrs []string
		for _, tag := range task.Tags {
			tagStrs = append(tagStrs, s.Tag.Render("#"+tag))
		}
		detail += "  " + strings.Join(tagStrs, "")
	}
	if task.ImagePath != "" {
		detail += s.TitleMuted.Render("  [img]")
	}

	lineStyle := s.TaskItem.Width(width)
	if selected {
		lineStyle = s.TaskSelected.Width(width)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lineStyle.Render(checkbox+title),
		lineStyle.Render("    "+detail),
	) + "\n"
}

func (v *TaskListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}

	k := v.styles.HelpKey.Render
	return v.styles.Help.Render(
		fmt.Sprintf("%s view • %s new • %s edit • %s done • %s del • %s search • %s filter • %s help • %s quit",
			k("↵"), k("n"), k("e"), k("space"), k("d"), k("/"), k("f"), k("?"), k("q"),
		),
	)
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	var helpItems []string
	for _, b := range []key.Binding{
		v.keys.Enter, v.keys.New, v.keys.Edit, v.keys.Toggle, v.keys.Delete,
		v.keys.ClearCompleted, v.keys.Export, v.keys.Search, v.keys.Filter,
		v.keys.Back, v.keys.Quit,
	} {
		h := b.Help()
		helpItems = append(helpItems, s.HelpKey.Render(fmt.Sprintf("%-7s", h.Key))+h.Desc)
	}
	helpItems = append(helpItems, "", s.TitleMuted.Render("Press any key to close"))

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Panel.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	heading, detail := "Delete Task?", fmt.Sprintf("%q will be removed.", v.deleteTargetName)
	if v.confirm == confirmClear {
		heading, detail = "Clear Completed?", "Every completed task will be removed."
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Danger.Render(heading),
		"",
		s.TitleMuted.Render(detail),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonDanger.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderExportPrompt() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Export to CSV"),
		"",
		"File:",
		s.InputFocused.Width(inputWidth).Render(v.exportInput.View()),
		"",
		s.TitleMuted.Render("↵: export • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderTaskView() string {
	task, ok := v.current()
	if !ok {
		return ""
	}

	s := v.styles
	maxContentWidth := styles.ContentWidth(v.width)
	textWidth := clamp(maxContentWidth-10, 20, 70)
	labelStyle := s.TitleMuted

	overdue := task.Overdue(v.now())
	deadline := task.Deadline.Format(models.DisplayLayout)
	if overdue {
		deadline += " (overdue)"
	}
	deadline = s.Due(overdue).Render(deadline)

	status := "Open"
	if task.Completed {
		status = "Completed " + models.FormatTime(task.CompletedAt)
	}

	tagsLine := "None"
	if len(task.Tags) > 0 {
		var tagStrs []string
		for _, tag := range task.Tags {
			tagStrs = append(tagStrs, s.Tag.Render("#"+tag))
		}
		tagsLine = strings.Join(tagStrs, "")
	}

	descText := task.Description
	if descText == "" {
		descText = s.TitleMuted.Render("No description")
	}

	attachment := s.TitleMuted.Render("None")
	if task.ImagePath != "" {
		if path, ok := v.attach.Resolve(task.ImagePath); ok {
			attachment = path
		} else {
			attachment = s.StatusError.Render(task.ImagePath + " (file missing)")
		}
	}

	helpText := s.Help.Render(
		fmt.Sprintf("%s edit • %s done/undo • %s delete • %s back",
			s.HelpKey.Render("e"),
			s.HelpKey.Render("space"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("esc"),
		),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.MarginBottom(1).Render(task.Title),
		labelStyle.Render("Deadline"),
		deadline,
		"",
		labelStyle.Render("Created"),
		task.CreatedAt.Format(models.DisplayLayout),
		"",
		labelStyle.Render("Status"),
		status,
		"",
		labelStyle.Render("Tags"),
		tagsLine,
		"",
		labelStyle.Render("Description"),
		lipgloss.NewStyle().Width(textWidth).Render(descText),
		"",
		labelStyle.Render("Image"),
		lipgloss.NewStyle().Width(textWidth).Render(attachment),
		"",
		v.renderStatus(),
		helpText,
	)

	padded := lipgloss.NewStyle().Padding(1, 2).Render(content)
	return styles.CenterView(padded, v.width, v.height)
}
