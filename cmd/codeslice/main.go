package main

import "github.com/mvp-joe/codeslice/internal/cli"

func main() {
	cli.Execute()
}
