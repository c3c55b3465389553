package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/postit/internal/app"
	"github.com/tgienger/postit/internal/models"
	"github.com/tgienger/postit/internal/ui/keys"
	"github.com/tgienger/postit/internal/ui/styles"
)

// edit form fields, in tab order
const (
	fieldTitle = iota
	fieldDesc
	fieldDue
	fieldPriority
	fieldColor
	fieldProject
	fieldSave
	fieldCount
)

// sideBySideWidth is the content width from which the post-it panel sits
// beside the list instead of under it
const sideBySideWidth = 76

// TaskListView shows the active project's tasks
type TaskListView struct {
	ctx      context.Context
	svc      *app.Service
	project  models.Project
	projects []models.Project
	tasks    []models.Task
	styles   *styles.Styles
	keys     keys.KeyMap

	width  int
	height int

	// UI state
	filter  models.Filter
	cursor  int
	scrollY int
	status  status

	// Task creation/editing
	editing        bool
	editingNew     bool
	editingID      int64
	editTitle      textinput.Model
	editDesc       textarea.Model
	editDue        textinput.Model
	editPriority   models.Priority
	editColor      models.Color
	editProjectIdx int
	editFocusIdx   int

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   int64
	deleteTargetName string

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

// NewTaskListView creates a task view for project starting with filter
func NewTaskListView(ctx context.Context, svc *app.Service, project models.Project, filter models.Filter) *TaskListView {
	s := styles.NewStyles()

	editTitle := textinput.New()
	editTitle.Placeholder = "Task title"
	editTitle.CharLimit = 200

	editDesc := textarea.New()
	editDesc.Placeholder = "Description"
	editDesc.CharLimit = 1000
	editDesc.SetWidth(50)
	editDesc.SetHeight(3)
	editDesc.ShowLineNumbers = false

	editDue := textinput.New()
	editDue.Placeholder = "YYYY-MM-DD"
	editDue.CharLimit = 32

	if filter == "" {
		filter = models.FilterAll
	}

	return &TaskListView{
		ctx:       ctx,
		svc:       svc,
		project:   project,
		styles:    s,
		keys:      keys.DefaultKeyMap(),
		filter:    filter,
		editTitle: editTitle,
		editDesc:  editDesc,
		editDue:   editDue,
	}
}

// BackToProjects signals to go back to project list
type BackToProjects struct{}

// Init initializes the view
func (v *TaskListView) Init() tea.Cmd {
	return v.loadTasks
}

type tasksLoadedMsg struct {
	tasks    []models.Task
	projects []models.Project
}

func (v *TaskListView) loadTasks() tea.Msg {
	return tasksLoadedMsg{
		tasks:    v.svc.VisibleTasks(v.filter),
		projects: v.svc.Projects(),
	}
}

// Filter returns the filter in effect
func (v *TaskListView) Filter() models.Filter {
	return v.filter
}

// selectedTask returns the task under the cursor
func (v *TaskListView) selectedTask() (models.Task, bool) {
	if v.cursor < 0 || v.cursor >= len(v.tasks) {
		return models.Task{}, false
	}
	return v.tasks[v.cursor], true
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		inputWidth := clamp(contentWidth-10, 20, 50)
		v.editDesc.SetWidth(inputWidth)
		return v, nil

	case tasksLoadedMsg:
		v.tasks = msg.tasks
		v.projects = msg.projects
		for _, p := range msg.projects {
			if p.ID == v.project.ID {
				v.project = p
			}
		}
		if v.cursor >= len(v.tasks) {
			v.cursor = max(0, len(v.tasks)-1)
		}
		v.ensureVisible()
		return v, nil

	case resultMsg:
		v.status = msg.status()
		return v, v.loadTasks

	case tea.KeyMsg:
		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.editing {
			return v.updateEditing(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.status = status{}

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToProjects{} }

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.tasks)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Edit), key.Matches(msg, v.keys.Enter):
		if task, ok := v.selectedTask(); ok {
			v.startEditTask(task)
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if task, ok := v.selectedTask(); ok {
			v.confirmingDelete = true
			v.deleteTargetID = task.ID
			v.deleteTargetName = task.Title
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle):
		if task, ok := v.selectedTask(); ok {
			return v, v.toggle(task.ID)
		}
		return v, nil

	case key.Matches(msg, v.keys.Duplicate):
		if task, ok := v.selectedTask(); ok {
			return v, v.duplicate(task.ID)
		}
		return v, nil

	case key.Matches(msg, v.keys.Filter):
		return v, v.setFilter(v.filter.Next())
	case key.Matches(msg, v.keys.FilterAll):
		return v, v.setFilter(models.FilterAll)
	case key.Matches(msg, v.keys.FilterPending):
		return v, v.setFilter(models.FilterPending)
	case key.Matches(msg, v.keys.FilterCompleted):
		return v, v.setFilter(models.FilterCompleted)

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) setFilter(f models.Filter) tea.Cmd {
	v.filter = f
	v.cursor = 0
	v.scrollY = 0
	return v.loadTasks
}

func (v *TaskListView) toggle(id int64) tea.Cmd {
	return func() tea.Msg {
		t, err := v.svc.ToggleTask(v.ctx, id)
		if err != nil {
			return resultMsg{err: err}
		}
		if t.Done {
			return resultMsg{text: "Completed " + t.Title}
		}
		return resultMsg{text: "Reopened " + t.Title}
	}
}

func (v *TaskListView) duplicate(id int64) tea.Cmd {
	return func() tea.Msg {
		t, err := v.svc.DuplicateTask(v.ctx, id)
		if err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{text: "Created " + t.Title}
	}
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		id, name := v.deleteTargetID, v.deleteTargetName
		return v, func() tea.Msg {
			if err := v.svc.DeleteTask(v.ctx, id); err != nil {
				return resultMsg{err: err}
			}
			return resultMsg{text: "Deleted " + name}
		}
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	onSelector := v.editFocusIdx == fieldPriority || v.editFocusIdx == fieldColor || v.editFocusIdx == fieldProject

	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		v.status = status{}
		return v, nil

	case key.Matches(msg, v.keys.Save):
		return v, v.saveTask()

	case key.Matches(msg, v.keys.ShiftTab):
		v.editFocusIdx = (v.editFocusIdx + fieldCount - 1) % fieldCount
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % fieldCount
		v.updateEditFocus()
		return v, nil

	case onSelector && (key.Matches(msg, v.keys.Right) || msg.String() == " "):
		v.cycleSelector(1)
		return v, nil

	case onSelector && key.Matches(msg, v.keys.Left):
		v.cycleSelector(-1)
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		// Enter in the description adds a newline
		if v.editFocusIdx == fieldDesc {
			break
		}
		if v.editFocusIdx == fieldSave {
			return v, v.saveTask()
		}
		v.editFocusIdx++
		v.updateEditFocus()
		return v, nil
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case fieldTitle:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case fieldDesc:
		v.editDesc, cmd = v.editDesc.Update(msg)
	case fieldDue:
		v.editDue, cmd = v.editDue.Update(msg)
	}
	return v, cmd
}

func (v *TaskListView) cycleSelector(dir int) {
	switch v.editFocusIdx {
	case fieldPriority:
		v.editPriority = nextPriority(v.editPriority, dir)
	case fieldColor:
		if dir > 0 {
			v.editColor = models.NextColor(v.editColor)
		} else {
			v.editColor = prevColor(v.editColor)
		}
	case fieldProject:
		if n := len(v.projects); n > 0 {
			v.editProjectIdx = (v.editProjectIdx + dir + n) % n
		}
	}
}

func (v *TaskListView) ensureVisible() {
	visibleItems := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

func (v *TaskListView) visibleItems() int {
	// header, filter bar, status and help take about 10 lines
	return max(v.height-10, 1)
}

func (v *TaskListView) startNewTask() {
	v.editing = true
	v.editingNew = true
	v.editingID = 0
	v.editFocusIdx = fieldTitle
	v.editTitle.Reset()
	v.editDesc.Reset()
	v.editDue.Reset()
	v.editPriority = models.PriorityLow
	v.editColor = models.Colors[0]
	v.editProjectIdx = v.projectIndex(v.project.ID)
	v.updateEditFocus()
}

func (v *TaskListView) startEditTask(task models.Task) {
	v.editing = true
	v.editingNew = false
	v.editingID = task.ID
	v.editFocusIdx = fieldTitle
	v.editTitle.SetValue(task.Title)
	v.editDesc.SetValue(task.Description)
	v.editDue.SetValue(task.DueDate)
	v.editPriority = task.Priority
	if !v.editPriority.Valid() {
		v.editPriority = models.PriorityLow
	}
	v.editColor = task.Color
	v.editProjectIdx = v.projectIndex(task.ProjectID)
	v.updateEditFocus()
}

func (v *TaskListView) projectIndex(id int64) int {
	for i, p := range v.projects {
		if p.ID == id {
			return i
		}
	}
	return 0
}

func (v *TaskListView) editProjectID() int64 {
	if v.editProjectIdx >= 0 && v.editProjectIdx < len(v.projects) {
		return v.projects[v.editProjectIdx].ID
	}
	return v.project.ID
}

func (v *TaskListView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDesc.Blur()
	v.editDue.Blur()

	switch v.editFocusIdx {
	case fieldTitle:
		v.editTitle.Focus()
	case fieldDesc:
		v.editDesc.Focus()
	case fieldDue:
		v.editDue.Focus()
	}
}

// saveTask validates synchronously so a rejected form stays open with the
// error shown under it.
func (v *TaskListView) saveTask() tea.Cmd {
	title := v.editTitle.Value()
	desc := v.editDesc.Value()
	due := v.editDue.Value()
	priority := v.editPriority
	color := v.editColor
	projectID := v.editProjectID()

	var (
		task models.Task
		err  error
		verb string
	)
	if v.editingNew {
		verb = "Created "
		task, err = v.svc.AddTask(v.ctx, models.TaskFields{
			Title:       title,
			Description: desc,
			DueDate:     due,
			Priority:    priority,
			Color:       color,
			ProjectID:   projectID,
		})
	} else {
		verb = "Saved "
		task, err = v.svc.EditTask(v.ctx, v.editingID, models.TaskPatch{
			Title:       &title,
			Description: &desc,
			DueDate:     &due,
			Priority:    &priority,
			Color:       &color,
			ProjectID:   &projectID,
		})
	}
	if isInputError(err) {
		v.status = status{err: err}
		return nil
	}

	v.editing = false
	if err != nil {
		return func() tea.Msg { return resultMsg{err: err} }
	}
	return func() tea.Msg { return resultMsg{text: verb + task.Title} }
}

func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.editing {
		return v.renderEditForm()
	}

	contentWidth := styles.ContentWidth(v.width)

	var body string
	task, hasTask := v.selectedTask()
	switch {
	case !hasTask:
		body = v.renderTaskList(contentWidth)
	case contentWidth >= sideBySideWidth:
		listWidth := contentWidth * 3 / 5
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			v.renderTaskList(listWidth),
			"  ",
			v.renderPostIt(task, contentWidth-listWidth-2),
		)
	default:
		body = lipgloss.JoinVertical(lipgloss.Left,
			v.renderTaskList(contentWidth),
			"",
			v.renderPostIt(task, contentWidth),
		)
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(v.status.render(v.styles))
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderHeader() string {
	s := v.styles

	total, done := v.svc.Stats(v.project.ID)
	title := lipgloss.JoinHorizontal(lipgloss.Center,
		styles.Dot(v.project.Color), " ",
		s.Title.Render(v.project.Name), "  ",
		s.TitleMuted.Render(fmt.Sprintf("%d/%d done", done, total)),
	)

	var filters []string
	for i, f := range models.Filters {
		label := fmt.Sprintf("%d %s", i+1, f)
		if f == v.filter {
			filters = append(filters, s.FilterActive.Render(label))
		} else {
			filters = append(filters, s.FilterButton.Render(label))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.JoinHorizontal(lipgloss.Center, filters...),
	)
}

func (v *TaskListView) renderTaskList(width int) string {
	s := v.styles

	if len(v.tasks) == 0 {
		if v.filter != models.FilterAll {
			return s.TitleMuted.Render(fmt.Sprintf("No %s tasks. Press 'f' to change the filter.", v.filter))
		}
		return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	var items []string
	endIdx := min(v.scrollY+v.visibleItems(), len(v.tasks))
	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTaskItem(v.tasks[i], i == v.cursor, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TaskListView) renderTaskItem(task models.Task, selected bool, width int) string {
	s := v.styles
	width = max(width-2, 20)

	check := "[ ]"
	if task.Done {
		check = "[x]"
	}
	priority := lipgloss.NewStyle().
		Foreground(styles.PriorityColor(task.Priority)).
		Render(fmt.Sprintf("%-6s", task.Priority.Label()))

	title := task.Title
	if task.Done {
		title = s.TaskDone.Render(title)
	}

	line := check + " " + styles.Dot(task.Color) + " " + priority + " " + title

	if selected {
		return s.ListSelected.Width(width).Render(line)
	}
	return s.ListItem.Width(width).Render(line)
}

// renderPostIt draws the selected task as a sticky note in its own color
func (v *TaskListView) renderPostIt(task models.Task, width int) string {
	s := v.styles
	width = max(width, 24)
	textWidth := width - 4

	desc := task.Description
	if desc == "" {
		desc = "No description"
	}
	due := task.DueDate
	if due == "" {
		due = "-"
	}
	state := "pending"
	if task.Done {
		state = "completed"
	}

	line := func(label, value string) string {
		return s.PostItLabel.Render(label+": ") + value
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.PostItTitle.Width(textWidth).Render(task.Title),
		lipgloss.NewStyle().Width(textWidth).Render(desc),
		"",
		line("Due", due),
		line("Priority", task.Priority.Label()),
		line("Status", state),
		line("Created", task.CreatedAt),
	)

	return s.PostIt.
		Background(styles.TagColor(task.Color)).
		Width(width).
		Render(content)
}

func (v *TaskListView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "New Task"
	btnLabel := " Create "
	if !v.editingNew {
		formTitle = "Edit Task"
		btnLabel = " Save "
	}

	inputWidth := clamp(contentWidth-6, 20, 50)
	field := func(idx int) lipgloss.Style {
		if v.editFocusIdx == idx {
			return s.InputFocused.Width(inputWidth)
		}
		return s.Input.Width(inputWidth)
	}
	selector := func(idx int, value string) string {
		style := s.Button
		if v.editFocusIdx == idx {
			style = s.ButtonFocused
		}
		return style.Render("‹ " + value + " ›")
	}
	btnStyle := s.Button
	if v.editFocusIdx == fieldSave {
		btnStyle = s.ButtonFocused
	}

	projectName := v.project.Name
	if v.editProjectIdx < len(v.projects) {
		projectName = v.projects[v.editProjectIdx].Name
	}

	priority := lipgloss.NewStyle().
		Foreground(styles.PriorityColor(v.editPriority)).
		Render(v.editPriority.Label())

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(formTitle),
		"",
		"Title:",
		field(fieldTitle).Render(v.editTitle.View()),
		"Description:",
		field(fieldDesc).Render(v.editDesc.View()),
		"Due date:",
		field(fieldDue).Render(v.editDue.View()),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			"Priority ", selector(fieldPriority, priority), "  ",
			"Color ", selector(fieldColor, styles.Dot(v.editColor)+" "+string(v.editColor)),
		),
		"Project  "+selector(fieldProject, projectName),
		"",
		btnStyle.Render(btnLabel),
		"",
		v.status.render(s),
		s.TitleMuted.Render("Tab: next • ←/→: change • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 60 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}

	return v.styles.Help.Render(
		fmt.Sprintf("%s done • %s edit • %s new • %s copy • %s del • %s filter • %s projects • %s quit",
			v.styles.HelpKey.Render("space"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("c"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("f"),
			v.styles.HelpKey.Render("esc"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("space") + "  toggle done",
		s.HelpKey.Render("e/↵") + "    edit task",
		s.HelpKey.Render("n") + "      new task",
		s.HelpKey.Render("c") + "      duplicate task",
		s.HelpKey.Render("d") + "      delete task",
		s.HelpKey.Render("f") + "      cycle filter",
		s.HelpKey.Render("1/2/3") + "  all / pending / completed",
		s.HelpKey.Render("esc") + "    projects",
		s.HelpKey.Render("q") + "      quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q will be removed.", v.deleteTargetName)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
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
