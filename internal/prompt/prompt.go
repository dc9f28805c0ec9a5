// Package prompt defines the interactive yes/no and text-input collaborators
// the timer core asks questions through.
package prompt

// Confirmer answers yes/no questions.
type Confirmer interface {
	Confirm(question string) bool
}

// Prompter collects a line of text. ok is false when the user cancelled.
type Prompter interface {
	Prompt(question, def string) (answer string, ok bool)
}

// Interactor can both confirm and prompt.
type Interactor interface {
	Confirmer
	Prompter
}
