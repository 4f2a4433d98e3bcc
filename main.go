package main

import "github.com/qobs-build/shadermake/cmd"

func main() {
	cmd.Execute()
}
