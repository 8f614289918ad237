package main

import "github.com/nextlevelbuilder/reorderbot/cmd"

func main() {
	cmd.Execute()
}
