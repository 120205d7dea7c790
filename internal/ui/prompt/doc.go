// Package prompt provides the interactive prompts gflow asks before it
// changes anything.
//
// Every prompt renders to stderr so stdout stays clean for reports.
//
// Available prompts:
//   - [Confirm]: Yes/No confirmation prompt
//   - [TextInput]: Single-line text input, used for typed confirmation phrases
//   - [Select]: Single selection from a list
package prompt
