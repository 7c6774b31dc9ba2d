package prompt

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// Confirm prompts the user for yes/no confirmation. Returns ErrAborted
// if the user presses Ctrl+C.
func Confirm(label string, defaultYes bool) (bool, error) {
	defaultStr := "y/N"
	if defaultYes {
		defaultStr = "Y/n"
	}

	p := promptui.Prompt{
		Label:     fmt.Sprintf("%s [%s]", label, defaultStr),
		IsConfirm: true,
	}

	result, err := p.Run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			return false, ErrAborted
		}
		// promptui reports an explicit "n" as ErrAbort
		if err == promptui.ErrAbort {
			return false, nil
		}
		// Empty input uses the default
		if result == "" {
			return defaultYes, nil
		}
		return false, err
	}

	result = strings.ToLower(result)
	return result == "y" || result == "yes", nil
}

// ConfirmWithForce returns true immediately if force is set, otherwise
// prompts for confirmation.
func ConfirmWithForce(label string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	return Confirm(label, false)
}
