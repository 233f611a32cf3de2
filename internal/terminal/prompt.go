package terminal

import (
	"errors"

	"github.com/AlecAivazis/survey/v2"
	surveyterm "github.com/AlecAivazis/survey/v2/terminal"

	"github.com/ndewijer/Migration-Dashboard/internal/dashboard"
	"github.com/ndewijer/Migration-Dashboard/internal/model"
)

// Confirm returns a dashboard.Confirm that asks on the terminal, or accepts
// without asking when assumeYes is set.
func Confirm(assumeYes bool) dashboard.Confirm {
	return func(message string) bool {
		if assumeYes {
			return true
		}
		var ok bool
		if err := survey.AskOne(&survey.Confirm{Message: message, Default: false}, &ok); err != nil {
			return false
		}
		return ok
	}
}

// ErrInterrupted is returned when the user aborts a prompt with Ctrl-C.
var ErrInterrupted = errors.New("interrupted")

// Select asks the user to pick one of options and returns its value.
// A pre-selected value is used as the default.
func Select(message string, options []model.Option, preselected string) (string, error) {
	if len(options) == 0 {
		return "", nil
	}

	labels := make([]string, len(options))
	byLabel := make(map[string]string, len(options))
	var def string
	for i, o := range options {
		labels[i] = o.Label
		byLabel[o.Label] = o.Value
		if o.Value == preselected {
			def = o.Label
		}
	}

	prompt := &survey.Select{Message: message, Options: labels}
	if def != "" {
		prompt.Default = def
	}

	var chosen string
	if err := survey.AskOne(prompt, &chosen); err != nil {
		if errors.Is(err, surveyterm.InterruptErr) {
			return "", ErrInterrupted
		}
		return "", err
	}
	return byLabel[chosen], nil
}

// Input asks for a line of text with an optional default.
func Input(message, def string) (string, error) {
	var answer string
	if err := survey.AskOne(&survey.Input{Message: message, Default: def}, &answer); err != nil {
		if errors.Is(err, surveyterm.InterruptErr) {
			return "", ErrInterrupted
		}
		return "", err
	}
	return answer, nil
}

// Password asks for a secret without echoing it.
func Password(message string) (string, error) {
	var answer string
	if err := survey.AskOne(&survey.Password{Message: message}, &answer); err != nil {
		if errors.Is(err, surveyterm.InterruptErr) {
			return "", ErrInterrupted
		}
		return "", err
	}
	return answer, nil
}
