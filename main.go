package main

import "github.com/0Bleak/crun/cmd"

func main() {
	cmd.Execute()
}
