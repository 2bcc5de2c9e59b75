// Package main is the entry point for the umm CLI.
package main

import "github.com/DhruvDh/umm-next-sub000/cmd"

func main() {
	cmd.Execute()
}
