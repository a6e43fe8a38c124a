package main

import "github.com/chriserin/reqtrace/cmd"

func main() {
	cmd.Execute()
}
