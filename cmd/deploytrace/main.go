package main

import "deploytrace/internal/cli"

func main() {
	cli.Execute()
}
