// Package prompt provides the interactive terminal prompts used by the
// guided bot-creation flow.
package prompt

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user aborts a prompt (Ctrl+C).
var ErrAborted = errors.New("aborted")

// IsAborted returns true if the error indicates the user aborted (Ctrl+C).
func IsAborted(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) || errors.Is(err, ErrAborted)
}

// wrapError converts promptui interrupt/abort errors to ErrAborted for
// consistent handling.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if IsAborted(err) {
		return ErrAborted
	}
	return err
}

// Input prompts for text input with a pre-filled default.
func Input(label string, defaultValue string) (string, error) {
	p := promptui.Prompt{
		Label:   label,
		Default: defaultValue,
	}

	result, err := p.Run()
	return result, wrapError(err)
}

// InputWithValidation prompts for text input with custom validation.
func InputWithValidation(label string, validate func(string) error) (string, error) {
	p := promptui.Prompt{
		Label:    label,
		Validate: validate,
	}

	result, err := p.Run()
	return result, wrapError(err)
}

// InputPort prompts for a network port with validation (1-65535).
func InputPort(label string, defaultValue int) (int, error) {
	p := promptui.Prompt{
		Label:   label,
		Default: strconv.Itoa(defaultValue),
		Validate: func(input string) error {
			port, err := strconv.Atoi(input)
			if err != nil {
				return fmt.Errorf("must be a valid integer")
			}
			if port < 1 || port > 65535 {
				return fmt.Errorf("must be a valid port (1-65535)")
			}
			return nil
		},
	}

	result, err := p.Run()
	if err != nil {
		return 0, wrapError(err)
	}

	value, _ := strconv.Atoi(result) // Already validated
	return value, nil
}
