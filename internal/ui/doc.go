// Package ui implements the interactive terminal pieces of the watchlist CLI using bubbletea's Elm architecture.
//
// [CredentialsModel] is a three-field form (username, password, confirmation) used by the admin command when
// credentials are not passed as flags. It implements the standard Init/Update/View pattern, moving focus with
// tab/shift+tab and submitting with enter on the last field. A mismatched confirmation keeps the form open and
// clears the confirmation field.
//
// [PromptCredentials] runs the model as a bubbletea program and returns the submitted [Credentials].
//
// [Palette] carries the lipgloss styles shared by the prompt and the CLI's plain output.
package ui
