package main

import "github.com/brightmind-app/brightmind/cmd/brightmind-cli/cmd"

func main() {
	cmd.Execute()
}
