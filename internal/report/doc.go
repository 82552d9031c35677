// Package report renders devstack output for a terminal: probe lines, the
// health summary, and the step/warning lines used by start and stop.
// Colour follows fatih/color, which disables itself when stdout is not a TTY.
package report
