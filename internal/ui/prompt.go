package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/watchlist/internal/models"
	"github.com/desertthunder/watchlist/internal/shared"
)

// Credentials are the values submitted through [CredentialsModel].
type Credentials struct {
	Username string
	Password string
}

// formHint is shown under the form title.
const formHint = "Used to log in to the web app. Nothing is saved until the form is submitted."

const (
	fieldUsername = iota
	fieldPassword
	fieldConfirm
)

// CredentialsModel is the bubbletea model of the administrator credentials form.
type CredentialsModel struct {
	inputs    []textinput.Model
	focus     int
	err       error
	done      bool
	cancelled bool
	help      help.Model
	keys      keyMap
}

var _ tea.Model = (*CredentialsModel)(nil)

// NewCredentialsModel creates the form with username pre-filled.
func NewCredentialsModel(username string) *CredentialsModel {
	inputs := make([]textinput.Model, 3)

	inputs[fieldUsername] = textinput.New()
	inputs[fieldUsername].Prompt = "Username: "
	inputs[fieldUsername].CharLimit = models.MaxUsernameLen
	inputs[fieldUsername].SetValue(username)

	inputs[fieldPassword] = textinput.New()
	inputs[fieldPassword].Prompt = "Password: "
	inputs[fieldPassword].EchoMode = textinput.EchoPassword
	inputs[fieldPassword].EchoCharacter = '•'

	inputs[fieldConfirm] = textinput.New()
	inputs[fieldConfirm].Prompt = "Confirm:  "
	inputs[fieldConfirm].EchoMode = textinput.EchoPassword
	inputs[fieldConfirm].EchoCharacter = '•'

	m := &CredentialsModel{inputs: inputs, help: help.New(), keys: newKeyMap()}
	if username != "" {
		m.focus = fieldPassword
	}
	m.inputs[m.focus].Focus()
	return m
}

func (m *CredentialsModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *CredentialsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.quit):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.next):
			return m, m.setFocus(m.focus + 1)
		case key.Matches(msg, m.keys.prev):
			return m, m.setFocus(m.focus - 1)
		case key.Matches(msg, m.keys.submit):
			if m.focus < fieldConfirm {
				return m, m.setFocus(m.focus + 1)
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// setFocus moves focus to field i, wrapping around.
func (m *CredentialsModel) setFocus(i int) tea.Cmd {
	n := len(m.inputs)
	i = ((i % n) + n) % n

	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[m.focus].Focus()
}

func (m *CredentialsModel) submit() (tea.Model, tea.Cmd) {
	username := strings.TrimSpace(m.inputs[fieldUsername].Value())
	password := m.inputs[fieldPassword].Value()

	if err := models.ValidateUsername(username); err != nil {
		m.err = err
		return m, m.setFocus(fieldUsername)
	}
	if password == "" {
		m.err = fmt.Errorf("%w: password is required", shared.ErrInvalidInput)
		return m, m.setFocus(fieldPassword)
	}
	if password != m.inputs[fieldConfirm].Value() {
		m.err = shared.ErrPasswordMismatch
		m.inputs[fieldConfirm].Reset()
		return m, m.setFocus(fieldConfirm)
	}

	m.err = nil
	m.done = true
	return m, tea.Quit
}

func (m *CredentialsModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(Styles.Title("Administrator account"))
	b.WriteString("\n")
	b.WriteString(Styles.Help(formHint))
	b.WriteString("\n\n")
	for _, in := range m.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(Styles.Err(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// Result returns the submitted credentials, or [shared.ErrCancelled] when the form was dismissed.
func (m *CredentialsModel) Result() (Credentials, error) {
	if !m.done {
		return Credentials{}, shared.ErrCancelled
	}
	return Credentials{
		Username: strings.TrimSpace(m.inputs[fieldUsername].Value()),
		Password: m.inputs[fieldPassword].Value(),
	}, nil
}

// PromptCredentials runs the credentials form on in/out until it is submitted or cancelled.
func PromptCredentials(ctx context.Context, username string, in io.Reader, out io.Writer) (Credentials, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}

	final, err := tea.NewProgram(NewCredentialsModel(username), opts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return Credentials{}, shared.ErrCancelled
		}
		return Credentials{}, fmt.Errorf("credentials prompt failed: %w", err)
	}

	m, ok := final.(*CredentialsModel)
	if !ok {
		return Credentials{}, fmt.Errorf("credentials prompt returned %T", final)
	}
	return m.Result()
}
