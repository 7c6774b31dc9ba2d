package prompt

import (
	"github.com/manifoldco/promptui"
)

// SelectOption represents an item in a selection list.
type SelectOption struct {
	Label       string
	Value       string
	Description string
}

// selectTemplates returns the standard templates for selection prompts.
func selectTemplates() *promptui.SelectTemplates {
	return &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }}",
		Inactive: "  {{ .Label | white }}",
		Selected: "* {{ .Label | green }}",
	}
}

// Select prompts the user to select from a list of options and returns
// the selected option's value.
func Select(label string, options []SelectOption) (string, error) {
	templates := selectTemplates()

	if len(options) > 0 && options[0].Description != "" {
		templates.Details = `
{{ "Details:" | faint }}	{{ .Description }}`
	}

	p := promptui.Select{
		Label:     label,
		Items:     options,
		Templates: templates,
		Size:      10,
	}

	i, _, err := p.Run()
	if err != nil {
		return "", wrapError(err)
	}

	return options[i].Value, nil
}

// SelectString prompts the user to select from a list of strings.
func SelectString(label string, items []string) (string, error) {
	p := promptui.Select{
		Label: label,
		Items: items,
		Size:  10,
	}

	_, result, err := p.Run()
	return result, wrapError(err)
}
