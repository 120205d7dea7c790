// Package format renders snapshots, analysis reports and replace progress
// as styled terminal text.
//
// Renderers return strings and never write. Colors come from the active
// theme in ui/styles; callers print through output.Printer.Render, which
// strips or downsamples them for the destination.
package format
