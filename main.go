package main

import "roadboard/cmd"

func main() {
	cmd.Execute()
}
