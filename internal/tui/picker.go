package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/famtodo/internal/model"
)

type profileItem struct {
	profile model.Profile
}

func (i profileItem) Title() string       { return i.profile.Name }
func (i profileItem) Description() string { return fmt.Sprintf("profile #%d", i.profile.ID) }
func (i profileItem) FilterValue() string { return i.profile.Name }

// PickerModel lets the user choose one profile from a list
type PickerModel struct {
	list   list.Model
	chosen *model.Profile
}

// NewPicker creates a picker over the given profiles, with current preselected
func NewPicker(profiles []model.Profile, current string) PickerModel {
	items := make([]list.Item, 0, len(profiles))
	selected := 0
	for i, p := range profiles {
		items = append(items, profileItem{profile: p})
		if p.Name == current {
			selected = i
		}
	}

	l := list.New(items, list.NewDefaultDelegate(), 40, 20)
	l.Title = "Choose a profile"
	l.SetShowStatusBar(false)
	l.Select(selected)

	return PickerModel{list: l}
}

// Chosen returns the selected profile once the user confirmed one
func (m PickerModel) Chosen() (model.Profile, bool) {
	if m.chosen == nil {
		return model.Profile{}, false
	}
	return *m.chosen, true
}

// Init implements tea.Model
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		// Keys belong to the filter input while it is open
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Enter):
			if item, ok := m.list.SelectedItem().(profileItem); ok {
				p := item.profile
				m.chosen = &p
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m PickerModel) View() string {
	return m.list.View()
}

// RunPicker shows the picker full screen and returns the confirmed profile
func RunPicker(profiles []model.Profile, current string) (model.Profile, bool, error) {
	final, err := tea.NewProgram(NewPicker(profiles, current), tea.WithAltScreen()).Run()
	if err != nil {
		return model.Profile{}, false, fmt.Errorf("failed to run profile picker: %w", err)
	}
	p, ok := final.(PickerModel).Chosen()
	return p, ok, nil
}

// Run launches the task browser full screen
func Run(source TreeSource, profile model.Profile) error {
	if _, err := tea.NewProgram(NewModel(source, profile), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
