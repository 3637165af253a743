// Package main provides the abacus CLI.
package main

import "github.com/mesh-intelligence/abacus/internal/cli"

func main() {
	cli.Execute()
}
