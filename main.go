package main

import "github.com/obstail/obstail/cmd"

func main() {
	cmd.Execute()
}
