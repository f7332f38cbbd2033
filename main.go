package main

import "github.com/mabhi256/jsadump/cmd"

func main() {
	cmd.Execute()
}
