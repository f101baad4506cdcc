package main

import "staffplan-cli/cmd"

func main() {
	cmd.Execute()
}
