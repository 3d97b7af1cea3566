package main

import "github.com/reoring/kson/cmd/kson/cmd"

func main() {
	cmd.Execute()
}
