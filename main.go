package main

import "github.com/mouse-blink/filterline/cmd"

func main() {
	cmd.Execute()
}
