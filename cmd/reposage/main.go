package main

import "reposage/internal/cli"

func main() {
	cli.Execute()
}
