package main

import "github.com/mpapenbr/ibt-analyzer-go/cmd"

func main() {
	cmd.Execute()
}
