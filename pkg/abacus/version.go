// Package abacus holds project-wide constants for the abacus calculator.
package abacus

// Version is the current release of the abacus CLI.
const Version = "0.1.0"
