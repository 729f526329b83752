package main

import "github.com/andrescamacho/work4food-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
