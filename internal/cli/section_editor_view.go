package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/testdeck/internal/cli/formatter"
	"github.com/alexanderramin/testdeck/internal/savequeue"
	"github.com/alexanderramin/testdeck/internal/sectiontree"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// saveResultMsg reports a background save finishing.
type saveResultMsg struct {
	err error
}

type editorKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Indent   key.Binding
	Outdent  key.Binding
	Save     key.Binding
	Discard  key.Binding
	Quit     key.Binding
}

func defaultEditorKeys() editorKeyMap {
	return editorKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "select")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "select")),
		MoveUp:   key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		MoveDown: key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
		Indent:   key.NewBinding(key.WithKeys("tab", "l", "right"), key.WithHelp("tab", "nest")),
		Outdent:  key.NewBinding(key.WithKeys("shift+tab", "h", "left"), key.WithHelp("S-tab", "un-nest")),
		Save:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Discard:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.MoveUp, k.MoveDown, k.Indent, k.Outdent, k.Save, k.Discard, k.Quit}
}

// sectionEditorModel is the interactive reorder screen. Changes are staged
// in the editor; the save key sends them as one batch through the queue.
// Quitting with unsaved changes needs a second press.
type sectionEditorModel struct {
	title   string
	editor  *sectiontree.Editor
	queue   *savequeue.Queue
	results chan error
	keys    editorKeyMap

	rows      sectiontree.Rows
	cursor    int
	saving    bool
	quitArmed bool
	status    string
	err       error
}

func newSectionEditorModel(title string, ed *sectiontree.Editor, q *savequeue.Queue) *sectionEditorModel {
	return &sectionEditorModel{
		title:   title,
		editor:  ed,
		queue:   q,
		results: make(chan error, 16),
		keys:    defaultEditorKeys(),
		rows:    ed.Rows(),
	}
}

func (m *sectionEditorModel) Init() tea.Cmd {
	return waitForSave(m.results)
}

func waitForSave(ch <-chan error) tea.Cmd {
	return func() tea.Msg {
		return saveResultMsg{err: <-ch}
	}
}

func (m *sectionEditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case saveResultMsg:
		m.saving = false
		if msg.err != nil {
			m.err = msg.err
			m.status = "save failed; changes are kept locally"
		} else {
			m.err = nil
			m.status = "saved"
		}
		m.refresh()
		return m, waitForSave(m.results)

	case tea.KeyMsg:
		quit := key.Matches(msg, m.keys.Quit)
		if !quit {
			m.quitArmed = false
		}
		switch {
		case quit:
			if m.dirty() && !m.quitArmed {
				m.quitArmed = true
				m.status = "unsaved changes: press q again to discard them, or s to save"
				return m, nil
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.MoveUp):
			m.apply(m.editor.MoveUp)
		case key.Matches(msg, m.keys.MoveDown):
			m.apply(m.editor.MoveDown)
		case key.Matches(msg, m.keys.Indent):
			m.apply(m.editor.Indent)
		case key.Matches(msg, m.keys.Outdent):
			m.apply(m.editor.Outdent)
		case key.Matches(msg, m.keys.Save):
			if m.dirty() {
				m.queueSave()
			}
		case key.Matches(msg, m.keys.Discard):
			if err := m.editor.Discard(context.Background()); err != nil {
				m.err = err
			} else {
				m.err = nil
				m.status = "reloaded"
			}
			m.refresh()
		}
	}
	return m, nil
}

func (m *sectionEditorModel) apply(op func(int) (int, error)) {
	if len(m.rows) == 0 {
		return
	}
	if m.saving {
		m.err = sectiontree.ErrSaveInProgress
		return
	}
	next, err := op(m.cursor)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.rows = m.editor.Rows()
	m.cursor = next
	m.status = ""
}

// dirty reports staged changes that no save has picked up yet.
func (m *sectionEditorModel) dirty() bool {
	return !m.saving && m.editor.State() == sectiontree.StateDirty
}

func (m *sectionEditorModel) queueSave() {
	m.saving = true
	m.status = ""
	results := m.results
	notify := func(err error) {
		select {
		case results <- err:
		default:
		}
	}
	m.queue.Submit(savequeue.Command{
		Key:       "reorder:" + m.editor.SetID(),
		Run:       m.editor.Save,
		OnSuccess: func() { notify(nil) },
		OnFailure: notify,
	})
}

// refresh reloads the rows and keeps the cursor on the same section.
func (m *sectionEditorModel) refresh() {
	id := ""
	if m.cursor < len(m.rows) {
		id = m.rows[m.cursor].ID
	}
	m.rows = m.editor.Rows()
	if i := m.rows.Index(id); i >= 0 {
		m.cursor = i
	}
	m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
}

func (m *sectionEditorModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + formatter.StyleHeader.Render(strings.ToUpper(m.title)))
	switch {
	case m.saving:
		b.WriteString("  " + formatter.StyleYellow.Render("saving…"))
	case m.dirty():
		b.WriteString("  " + formatter.StyleYellow.Render("● unsaved changes"))
	}
	b.WriteString("\n\n")

	for i, r := range m.rows {
		cursor := "  "
		name := formatter.StyleFg.Render(r.Name)
		if r.Unassigned {
			name = formatter.Dim(r.Name)
		}
		if i == m.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			name = formatter.StyleBold.Render(r.Name)
		}
		indent := strings.Repeat("  ", r.Level-1)
		b.WriteString(fmt.Sprintf("  %s%s%s %s\n", cursor, indent, name,
			formatter.Dim(fmt.Sprintf("(%d)", r.TestCaseCount))))
	}

	b.WriteString("\n  ")
	switch {
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render("Error: " + m.err.Error()))
	case m.status != "":
		b.WriteString(formatter.Dim(m.status))
	}
	b.WriteString("\n\n  ")

	var help []string
	for _, k := range m.keys.ShortHelp() {
		h := k.Help()
		help = append(help, formatter.StyleYellow.Render(h.Key)+" "+formatter.Dim(h.Desc))
	}
	b.WriteString(strings.Join(help, "  ") + "\n")
	return b.String()
}
