// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrPromptCancelled is returned when the operator aborts a prompt with Ctrl+C
var ErrPromptCancelled = errors.New("cancelled by operator")

// Styles
var (
	promptStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))

	hintStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	timerStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	passStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10")).
		Bold(true)

	failStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)
)

// terminalUI asks the operator through bubbletea prompts on the terminal
type terminalUI struct{}

func newTerminalUI() (terminalUI, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return terminalUI{}, fmt.Errorf("interactive prompts need a terminal on stdin")
	}
	return terminalUI{}, nil
}

func runPrompt(ctx context.Context, m tea.Model) (tea.Model, error) {
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, err
	}
	return final, nil
}

//////////////////////////////////////////////////////////////
// Wait
//////////////////////////////////////////////////////////////

type waitModel struct {
	timer       timer.Model
	interrupted bool
	cancelled   bool
}

func (m waitModel) Init() tea.Cmd {
	return m.timer.Init()
}

func (m waitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
		} else {
			m.interrupted = true
		}
		return m, tea.Quit

	case timer.TickMsg, timer.StartStopMsg:
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return m, cmd

	case timer.TimeoutMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m waitModel) View() string {
	if m.interrupted || m.cancelled || m.timer.Timedout() {
		return ""
	}
	return fmt.Sprintf("%s %s\n",
		timerStyle.Render(m.timer.View()),
		hintStyle.Render("(press any key to interrupt)"))
}

// Wait counts down d. Any key press interrupts it.
func (terminalUI) Wait(ctx context.Context, d time.Duration) (bool, error) {
	final, err := runPrompt(ctx, waitModel{timer: timer.NewWithInterval(d, 100*time.Millisecond)})
	if err != nil {
		return false, err
	}
	m := final.(waitModel)
	if m.cancelled {
		return false, ErrPromptCancelled
	}
	return m.interrupted, nil
}

//////////////////////////////////////////////////////////////
// Select
//////////////////////////////////////////////////////////////

type choice string

func (c choice) Title() string       { return string(c) }
func (c choice) Description() string { return "" }
func (c choice) FilterValue() string { return string(c) }

type selectModel struct {
	list      list.Model
	chosen    int
	cancelled bool
}

func newSelectModel(prompt string, items []string) selectModel {
	listItems := make([]list.Item, len(items))
	for i, it := range items {
		listItems[i] = choice(it)
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(listItems, delegate, 40, len(items)+4)
	l.Title = prompt
	l.Styles.Title = promptStyle
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return selectModel{list: l, chosen: -1}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			m.chosen = m.list.Index()
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	if m.chosen >= 0 || m.cancelled {
		return ""
	}
	return m.list.View() + "\n"
}

// Select shows items as a list and returns the index picked with enter
func (terminalUI) Select(ctx context.Context, prompt string, items []string) (int, error) {
	final, err := runPrompt(ctx, newSelectModel(prompt, items))
	if err != nil {
		return -1, err
	}
	m := final.(selectModel)
	if m.cancelled || m.chosen < 0 {
		return -1, ErrPromptCancelled
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", promptStyle.Render(prompt+":"), items[m.chosen])
	return m.chosen, nil
}

//////////////////////////////////////////////////////////////
// Confirm
//////////////////////////////////////////////////////////////

type confirmModel struct {
	prompt    string
	def       bool
	answer    bool
	done      bool
	cancelled bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch strings.ToLower(key.String()) {
	case "ctrl+c":
		m.cancelled = true
	case "y":
		m.answer, m.done = true, true
	case "n":
		m.answer, m.done = false, true
	case "enter":
		m.answer, m.done = m.def, true
	default:
		return m, nil
	}
	return m, tea.Quit
}

func (m confirmModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	hint := "[y/N]"
	if m.def {
		hint = "[Y/n]"
	}
	return fmt.Sprintf("%s %s ", promptStyle.Render(m.prompt+"?"), hintStyle.Render(hint))
}

// Confirm asks a yes/no question; enter picks def
func (terminalUI) Confirm(ctx context.Context, prompt string, def bool) (bool, error) {
	final, err := runPrompt(ctx, confirmModel{prompt: prompt, def: def})
	if err != nil {
		return false, err
	}
	m := final.(confirmModel)
	if m.cancelled {
		return false, ErrPromptCancelled
	}
	answer := failStyle.Render("no")
	if m.answer {
		answer = passStyle.Render("yes")
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", promptStyle.Render(prompt+"?"), answer)
	return m.answer, nil
}
