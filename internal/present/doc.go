// Package present formats calculator output for the terminal with lipgloss:
// results, classified errors, the operator help and the history listing.
// A plain printer emits the same text without styling.
package present
