package main

import "github.com/ddzz/ember-template-lint/internal/cli"

func main() {
	cli.Execute()
}
