package main

import "github.com/notargets/gocdo/cmd"

func main() {
	cmd.Execute()
}
