package main

import "github.com/mverkerk/rpsbattle/internal/cli"

func main() {
	cli.Execute()
}
