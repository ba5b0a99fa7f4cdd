package main

import "github.com/specmint/specmint/cmd"

func main() {
	cmd.Execute()
}
