// Package prompt provides simple interactive prompts.
//
// This package contains standalone interactive prompts for common
// user input scenarios.
//
// Available prompts:
//   - [Confirm]: Yes/No confirmation prompt
//   - [TextInput]: Single-line text input
//   - [TextArea]: Multiline editor with prefilled content
//   - [Select]: Single selection from a list
//   - [MultiSelect]: Fuzzy-filterable checklist selection
package prompt
