package views

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/postit/internal/app"
	"github.com/tgienger/postit/internal/models"
	"github.com/tgienger/postit/internal/ui/keys"
	"github.com/tgienger/postit/internal/ui/styles"
)

type projectItem struct {
	project models.Project
	total   int
	done    int
}

func (i projectItem) Title() string { return i.project.Name }
func (i projectItem) Description() string {
	if i.total == 0 {
		return "no tasks"
	}
	return fmt.Sprintf("%d/%d done", i.done, i.total)
}
func (i projectItem) FilterValue() string { return i.project.Name }

type projectDelegate struct {
	styles *styles.Styles
	width  int
}

func (d projectDelegate) Height() int                               { return 2 }
func (d projectDelegate) Spacing() int                              { return 1 }
func (d projectDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	p, ok := item.(projectItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var titleStyle, descStyle lipgloss.Style
	if selected {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		titleStyle = d.styles.ListItem.Width(width)
		descStyle = d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	title := titleStyle.Render(styles.Dot(p.project.Color) + " " + p.Title())
	desc := descStyle.Render("  " + p.Description())

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

// SelectedProject asks the app to activate a project and show its tasks
type SelectedProject struct {
	Project models.Project
}

type projectsLoadedMsg struct {
	items []list.Item
}

// ProjectListView lists projects and edits them
type ProjectListView struct {
	ctx      context.Context
	svc      *app.Service
	list     list.Model
	delegate *projectDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int
	loaded   bool
	status   status

	// Create/edit form
	editing    bool
	editingID  int64
	editingNew bool
	formName   textinput.Model
	formColor  models.Color
	focusIdx   int // 0=name, 1=color, 2=confirm

	confirmingDelete bool
	deleteTargetID   int64
	deleteTargetName string

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

// NewProjectListView creates the project list backed by svc
func NewProjectListView(ctx context.Context, svc *app.Service) *ProjectListView {
	s := styles.NewStyles()

	name := textinput.New()
	name.Placeholder = "Project name"
	name.CharLimit = 100

	delegate := &projectDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Projects"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &ProjectListView{
		ctx:      ctx,
		svc:      svc,
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
		formName: name,
	}
}

func (v *ProjectListView) Init() tea.Cmd {
	return v.loadProjects
}

func (v *ProjectListView) loadProjects() tea.Msg {
	projects := v.svc.Projects()
	items := make([]list.Item, len(projects))
	for i, p := range projects {
		total, done := v.svc.Stats(p.ID)
		items[i] = projectItem{project: p, total: total, done: done}
	}
	return projectsLoadedMsg{items: items}
}

// selectedProject returns the highlighted project
func (v *ProjectListView) selectedProject() (models.Project, bool) {
	item, ok := v.list.SelectedItem().(projectItem)
	if !ok {
		return models.Project{}, false
	}
	return item.project, true
}

func (v *ProjectListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		// Use content width (capped at MaxWidth) for internal layout
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-7)
		return v, nil

	case projectsLoadedMsg:
		v.list.SetItems(msg.items)
		v.loaded = true
		return v, nil

	case resultMsg:
		v.status = msg.status()
		return v, v.loadProjects

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

		// Let the list's filter input own the keyboard while typing
		if v.list.FilterState() == list.Filtering {
			break
		}

		v.status = status{}
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			// Don't quit on escape in project list - only q quits
			if v.list.FilterState() == list.FilterApplied {
				v.list.ResetFilter()
			}
			return v, nil
		case key.Matches(msg, v.keys.New):
			return v, v.startForm(models.Project{Color: models.Colors[0]}, true)
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if p, ok := v.selectedProject(); ok {
				return v, func() tea.Msg {
					return SelectedProject{Project: p}
				}
			}
		case key.Matches(msg, v.keys.Edit):
			if p, ok := v.selectedProject(); ok {
				return v, v.startForm(p, false)
			}
		case key.Matches(msg, v.keys.Duplicate):
			if p, ok := v.selectedProject(); ok {
				return v, v.duplicate(p.ID)
			}
		case key.Matches(msg, v.keys.Delete):
			if p, ok := v.selectedProject(); ok {
				v.confirmingDelete = true
				v.deleteTargetID = p.ID
				v.deleteTargetName = p.Name
				return v, nil
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *ProjectListView) duplicate(id int64) tea.Cmd {
	return func() tea.Msg {
		p, err := v.svc.DuplicateProject(v.ctx, id)
		if err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{text: "Created " + p.Name}
	}
}

func (v *ProjectListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		id, name := v.deleteTargetID, v.deleteTargetName
		return v, func() tea.Msg {
			if err := v.svc.DeleteProject(v.ctx, id); err != nil {
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

func (v *ProjectListView) startForm(p models.Project, isNew bool) tea.Cmd {
	v.editing = true
	v.editingNew = isNew
	v.editingID = p.ID
	v.formColor = p.Color
	v.focusIdx = 0
	v.formName.SetValue(p.Name)
	v.formName.CursorEnd()
	v.updateFocus()
	return textinput.Blink
}

func (v *ProjectListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		v.status = status{}
		return v, nil

	case key.Matches(msg, v.keys.Save):
		return v, v.saveProject()

	case key.Matches(msg, v.keys.ShiftTab):
		v.focusIdx = (v.focusIdx + 2) % 3
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % 3
		v.updateFocus()
		return v, nil

	case v.focusIdx == 1 && (key.Matches(msg, v.keys.Right) || msg.String() == " "):
		v.formColor = models.NextColor(v.formColor)
		return v, nil

	case v.focusIdx == 1 && key.Matches(msg, v.keys.Left):
		v.formColor = prevColor(v.formColor)
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx < 2 {
			v.focusIdx++
			v.updateFocus()
			return v, nil
		}
		return v, v.saveProject()
	}

	var cmd tea.Cmd
	if v.focusIdx == 0 {
		v.formName, cmd = v.formName.Update(msg)
	}
	return v, cmd
}

func (v *ProjectListView) saveProject() tea.Cmd {
	name := v.formName.Value()
	color := v.formColor

	if v.editingNew {
		p, err := v.svc.AddProject(v.ctx, models.ProjectFields{Name: name, Color: color})
		if isInputError(err) {
			v.status = status{err: err}
			return nil
		}
		v.editing = false
		if err != nil {
			return func() tea.Msg { return resultMsg{err: err} }
		}
		return func() tea.Msg { return SelectedProject{Project: p} }
	}

	p, err := v.svc.EditProject(v.ctx, v.editingID, models.ProjectPatch{
		Name:  &name,
		Color: &color,
	})
	if isInputError(err) {
		v.status = status{err: err}
		return nil
	}
	v.editing = false
	return func() tea.Msg { return resultMsg{text: "Saved " + p.Name, err: err} }
}

func (v *ProjectListView) updateFocus() {
	v.formName.Blur()
	if v.focusIdx == 0 {
		v.formName.Focus()
	}
}

// View renders the view
func (v *ProjectListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.editing {
		return v.renderForm()
	}

	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	if len(v.list.Items()) == 0 {
		return v.renderEmpty()
	}

	content := v.list.View() + "\n" + v.status.render(v.styles) + "\n" + v.renderHelp()
	return styles.CenterView(content, v.width, v.height)
}

func (v *ProjectListView) renderEmpty() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Projects"),
		"",
		s.TitleMuted.Render("Press 'n' to create your first project"),
		"",
		s.ButtonPrimary.Render(" New Project "),
		"",
		v.status.render(s),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) renderForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	nameStyle := s.Input
	colorStyle := s.Button
	btnStyle := s.Button

	switch v.focusIdx {
	case 0:
		nameStyle = s.InputFocused
	case 1:
		colorStyle = s.ButtonFocused
	case 2:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	formTitle, btnLabel := "New Project", " Create "
	if !v.editingNew {
		formTitle, btnLabel = "Edit Project", " Save "
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(formTitle),
		"",
		"Name:",
		nameStyle.Width(inputWidth).Render(v.formName.View()),
		"",
		"Color:",
		colorStyle.Render("‹ "+styles.Dot(v.formColor)+" "+string(v.formColor)+" ›"),
		"",
		btnStyle.Render(btnLabel),
		"",
		v.status.render(s),
		s.TitleMuted.Render("Tab: next • ←/→: color • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s select • %s new • %s edit • %s copy • %s del • %s find • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("c"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("/"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *ProjectListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("↵") + "      open project",
		s.HelpKey.Render("n") + "      new project",
		s.HelpKey.Render("e") + "      rename / recolor",
		s.HelpKey.Render("c") + "      duplicate with tasks",
		s.HelpKey.Render("d") + "      delete project",
		s.HelpKey.Render("/") + "      find by name",
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

func (v *ProjectListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Project?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q and all of its tasks will be removed.", v.deleteTargetName)),
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
