package main

import "github.com/andrewpaige1/memora/cmd"

func main() {
	cmd.Execute()
}
