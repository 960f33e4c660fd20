package main

import "github.com/klipgrab/klipgrab/cmd"

func main() {
	cmd.Execute()
}
