package main

import "github.com/gotoolcall/cmd"

func main() {
	cmd.Execute()
}
