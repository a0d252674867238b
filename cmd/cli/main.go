package main

import "bookshop/cmd/cli/command"

func main() {
	command.Execute()
}
