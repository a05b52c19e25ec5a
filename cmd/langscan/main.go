package main

import "langscan/internal/cli"

func main() {
	cli.Execute()
}
