package main

import "github.com/ahmetcoskunkizilkaya/pengu/internal/cli"

func main() {
	cli.Execute()
}
