// Package main is the entry point for the vcrm CLI.
package main

import "vcrm.dev/pkg/vcrm/cmd"

func main() {
	cmd.Execute()
}
