package main

import "recipe-extractor/internal/cli"

func main() {
	cli.Execute()
}
