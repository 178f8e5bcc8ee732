package views

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/todo/internal/logger"
	"github.com/tgienger/todo/internal/models"
	"github.com/tgienger/todo/internal/ui/styles"
)

// Form fields in tab order
const (
	fieldTitle = iota
	fieldDesc
	fieldDeadline
	fieldTags
	fieldTagSelector
	fieldImage
	fieldSave
	fieldCount
)

// taskForm holds the state of the create/edit form
type taskForm struct {
	open      bool
	taskID    int64 // 0 for a new task
	origImage string

	title    textinput.Model
	desc     textarea.Model
	deadline textinput.Model
	tags     textinput.Model
	image    textinput.Model

	focus     int
	tagCursor int
	err       string
}

func newTaskForm() taskForm {
	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 200

	desc := textarea.New()
	desc.Placeholder = "Description"
	desc.CharLimit = 2000
	desc.SetWidth(50)
	desc.SetHeight(3)
	desc.ShowLineNumbers = false

	deadline := textinput.New()
	deadline.Placeholder = "dd.mm.yyyy hh:mm"
	deadline.CharLimit = len(models.DisplayLayout)

	tags := textinput.New()
	tags.Placeholder = "work, home"
	tags.CharLimit = 300

	image := textinput.New()
	image.Placeholder = "/path/to/image.png"
	image.CharLimit = 1024

	return taskForm{
		title:    title,
		desc:     desc,
		deadline: deadline,
		tags:     tags,
		image:    image,
	}
}

func (v *TaskListView) startNewTask() {
	f := &v.form
	f.open = true
	f.taskID = 0
	f.origImage = ""
	f.err = ""
	f.focus = fieldTitle
	f.tagCursor = 0
	f.title.Reset()
	f.desc.Reset()
	f.tags.Reset()
	f.image.Reset()
	// default to the same time tomorrow
	f.deadline.SetValue(v.now().Add(24 * time.Hour).Format(models.DisplayLayout))
	v.updateFormFocus()
}

func (v *TaskListView) startEditTask(task models.Task) {
	f := &v.form
	f.open = true
	f.taskID = task.ID
	f.origImage = task.ImagePath
	f.err = ""
	f.focus = fieldTitle
	f.tagCursor = 0
	f.title.SetValue(task.Title)
	f.desc.SetValue(task.Description)
	f.deadline.SetValue(task.Deadline.Format(models.DisplayLayout))
	f.tags.SetValue(strings.Join(task.Tags, ", "))
	f.image.SetValue(task.ImagePath)
	v.updateFormFocus()
}

func (v *TaskListView) updateFormFocus() {
	f := &v.form
	f.title.Blur()
	f.desc.Blur()
	f.deadline.Blur()
	f.tags.Blur()
	f.image.Blur()

	switch f.focus {
	case fieldTitle:
		f.title.Focus()
	case fieldDesc:
		f.desc.Focus()
	case fieldDeadline:
		f.deadline.Focus()
	case fieldTags:
		f.tags.Focus()
	case fieldImage:
		f.image.Focus()
	}
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &v.form

	switch {
	case key.Matches(msg, v.keys.Back):
		f.open = false
		return v, nil

	case key.Matches(msg, v.keys.Save):
		return v, v.saveTask()

	case key.Matches(msg, v.keys.Tab):
		f.focus = (f.focus + 1) % fieldCount
		v.updateFormFocus()
		return v, nil

	case msg.String() == "shift+tab":
		f.focus = (f.focus + fieldCount - 1) % fieldCount
		v.updateFormFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch f.focus {
		case fieldTagSelector:
			v.toggleFormTag()
			return v, nil
		case fieldSave:
			return v, v.saveTask()
		case fieldDesc:
			// newlines belong to the textarea
		default:
			f.focus++
			v.updateFormFocus()
			return v, nil
		}

	case msg.String() == " " && f.focus == fieldTagSelector:
		v.toggleFormTag()
		return v, nil

	case key.Matches(msg, v.keys.Up) && f.focus == fieldTagSelector:
		if f.tagCursor > 0 {
			f.tagCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down) && f.focus == fieldTagSelector:
		if f.tagCursor < len(v.tags)-1 {
			f.tagCursor++
		}
		return v, nil
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDesc:
		f.desc, cmd = f.desc.Update(msg)
	case fieldDeadline:
		f.deadline, cmd = f.deadline.Update(msg)
	case fieldTags:
		f.tags, cmd = f.tags.Update(msg)
	case fieldImage:
		f.image, cmd = f.image.Update(msg)
	}
	return v, cmd
}

// toggleFormTag adds or removes the highlighted registry tag in the tags field
func (v *TaskListView) toggleFormTag() {
	f := &v.form
	if f.tagCursor >= len(v.tags) {
		return
	}
	name := v.tags[f.tagCursor].Name

	current := models.ParseTagList(f.tags.Value())
	for i, t := range current {
		if strings.EqualFold(t, name) {
			current = append(current[:i], current[i+1:]...)
			f.tags.SetValue(strings.Join(current, ", "))
			return
		}
	}
	f.tags.SetValue(strings.Join(append(current, name), ", "))
}

// formInput validates the form and copies a newly chosen image into the
// attachment directory. copied names that file so a failed save can drop it.
func (v *TaskListView) formInput() (in models.TaskInput, copied string, err error) {
	f := &v.form

	deadline, err := models.ParseDeadline(f.deadline.Value())
	if err != nil {
		return models.TaskInput{}, "", err
	}
	in = models.TaskInput{
		Title:       f.title.Value(),
		Description: f.desc.Value(),
		Deadline:    deadline,
		Tags:        models.ParseTagList(f.tags.Value()),
	}
	if _, err := in.Normalize(); err != nil {
		return models.TaskInput{}, "", err
	}

	image := strings.TrimSpace(f.image.Value())
	switch {
	case image == "":
	case image == f.origImage:
		in.ImagePath = f.origImage
	default:
		managed := v.attach.Managed(image)
		name, err := v.attach.Attach(image)
		if err != nil {
			return models.TaskInput{}, "", err
		}
		in.ImagePath = name
		if !managed {
			copied = name
		}
	}
	return in, copied, nil
}

// discardCopy removes an image copied for a save that did not go through
func (v *TaskListView) discardCopy(name string) {
	if name == "" {
		return
	}
	if err := v.attach.Remove(name); err != nil {
		logger.Warn("discarding %s: %v", name, err)
	}
}

func (v *TaskListView) saveTask() tea.Cmd {
	f := &v.form

	in, copied, err := v.formInput()
	if err != nil {
		f.err = err.Error()
		return nil
	}

	if f.taskID == 0 {
		id, err := v.store.CreateTask(in)
		if err != nil {
			v.discardCopy(copied)
			f.err = err.Error()
			return nil
		}
		v.selectID = id
		logger.Debug("created task %d", id)
		v.setStatus("Task created", false)
	} else {
		err := v.store.UpdateTask(f.taskID, in)
		if err != nil {
			v.discardCopy(copied)
		}
		if errors.Is(err, models.ErrNotFound) {
			f.open = false
			v.setStatus("Task no longer exists", true)
			return v.Reload()
		}
		if err != nil {
			f.err = err.Error()
			return nil
		}
		v.selectID = f.taskID
		v.setStatus("Task saved", false)
	}

	f.open = false
	return v.Reload()
}

func (v *TaskListView) renderEditForm() string {
	s := v.styles
	f := &v.form
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "New Task"
	if f.taskID != 0 {
		formTitle = "Edit Task"
	}

	fieldStyles := make([]lipgloss.Style, fieldCount)
	for i := range fieldStyles {
		fieldStyles[i] = s.Input
	}
	fieldStyles[f.focus] = s.InputFocused
	btnStyle := s.Button
	if f.focus == fieldSave {
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	rows := []string{
		s.Title.Render(formTitle),
		"",
		"Title:",
		fieldStyles[fieldTitle].Width(inputWidth).Render(f.title.View()),
		"Description:",
		fieldStyles[fieldDesc].Render(f.desc.View()),
		"Deadline:",
		fieldStyles[fieldDeadline].Width(inputWidth).Render(f.deadline.View()),
		"Tags (comma separated):",
		fieldStyles[fieldTags].Width(inputWidth).Render(f.tags.View()),
		v.renderFormTagSelector(fieldStyles[fieldTagSelector], inputWidth),
		"Image:",
		fieldStyles[fieldImage].Width(inputWidth).Render(f.image.View()),
		"",
		btnStyle.Render(" Save "),
	}
	if f.err != "" {
		rows = append(rows, "", s.StatusError.Render(f.err))
	}
	rows = append(rows, "",
		s.TitleMuted.Render("Tab: next • ↑↓: select tag • Space/↵: toggle • Ctrl+S: save • Esc: cancel"))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

// renderFormTagSelector lists the known tags with a checkbox for the ones
// named in the tags field
func (v *TaskListView) renderFormTagSelector(containerStyle lipgloss.Style, width int) string {
	s := v.styles
	f := &v.form

	if len(v.tags) == 0 {
		return containerStyle.Width(width).Render(s.TitleMuted.Render("No existing tags"))
	}

	chosen := models.ParseTagList(f.tags.Value())
	var items []string
	for i, tag := range v.tags {
		checkbox := "[ ]"
		if containsFold(chosen, tag.Name) {
			checkbox = "[x]"
		}
		itemText := checkbox + " " + tag.Name

		if f.focus == fieldTagSelector && i == f.tagCursor {
			items = append(items, s.ListSelected.Render(itemText))
		} else {
			items = append(items, s.ListItem.Render(itemText))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, items...)
	return containerStyle.Width(width).Render(content)
}

func containsFold(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
