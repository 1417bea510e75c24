package main

import "mycarts/internal/cli"

func main() {
	cli.Execute()
}
