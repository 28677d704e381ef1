package workflow

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/mattn/go-isatty"
)

type Action int

const (
	ActionCommit Action = iota
	ActionCancel
	ActionRegenerate
)

// Prompter gathers user confirmations. An empty response always takes the
// default answer.
type Prompter interface {
	Confirm(question string, defaultYes bool) (bool, error)
	ConfirmCommitMessage(message string) (Action, string, error)
}

type InteractivePrompter struct {
	AutoYes   bool
	ErrWriter io.Writer
	Stdin     io.Reader
}

func (p *InteractivePrompter) reader() (*bufio.Reader, error) {
	stdin := p.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	if f, ok := stdin.(*os.File); ok {
		if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
			return nil, errors.New("stdin is not a terminal, use --yes to skip interactive confirmation")
		}
	}
	return bufio.NewReader(stdin), nil
}

// Confirm asks a yes/no question.
func (p *InteractivePrompter) Confirm(question string, defaultYes bool) (bool, error) {
	if p.AutoYes {
		return true, nil
	}

	reader, err := p.reader()
	if err != nil {
		return false, err
	}

	hint := "[Y/n]"
	if !defaultYes {
		hint = "[y/N]"
	}
	fmt.Fprintf(p.ErrWriter, "%s %s: ", question, hint)

	response, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read user input: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(response)) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ConfirmCommitMessage asks the user to accept, cancel, regenerate, or edit
// the generated commit message. Empty input accepts.
func (p *InteractivePrompter) ConfirmCommitMessage(message string) (Action, string, error) {
	if p.AutoYes {
		fmt.Fprintln(p.ErrWriter, "Auto-confirming commit message (-y flag is set)")
		return ActionCommit, "", nil
	}

	reader, err := p.reader()
	if err != nil {
		return ActionCancel, "", err
	}

	fmt.Fprint(p.ErrWriter,
		"\nDo you want to proceed with this commit message? [y/n/r/e] (y/n/r=regenerate/e=edit): ")
	response, err := reader.ReadString('\n')
	if err != nil {
		return ActionCancel, "", fmt.Errorf("failed to read user input: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(response)) {
	case "n":
		return ActionCancel, "", nil
	case "r":
		return ActionRegenerate, "", nil
	case "e":
		editedMessage, err := p.openEditor(message)
		return ActionCommit, editedMessage, err
	case "y", "":
		return ActionCommit, "", nil
	default:
		fmt.Fprintln(p.ErrWriter, "Invalid input. Commit cancelled")
		return ActionCancel, "", nil
	}
}

func (p *InteractivePrompter) openEditor(message string) (string, error) {
	fmt.Fprintln(p.ErrWriter, "Opening editor to modify commit message...")

	tmpFile, err := os.CreateTemp("", "autoflow-commit-")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}

	tmpFileName := tmpFile.Name()
	defer os.Remove(tmpFileName)

	if _, err := tmpFile.WriteString(message); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("failed to write to temporary file: %w", err)
	}
	tmpFile.Close()

	editor := getEditor()
	cmd := exec.Command(editor, tmpFileName)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to open editor: %w", err)
	}

	editedBytes, err := os.ReadFile(tmpFileName)
	if err != nil {
		return "", fmt.Errorf("failed to read edited message: %w", err)
	}

	editedMessage := strings.TrimSpace(string(editedBytes))
	if editedMessage == "" {
		fmt.Fprintln(p.ErrWriter, "Empty message provided, using original message")
		return "", nil
	}
	return editedMessage, nil
}

func getEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	return "vi"
}
