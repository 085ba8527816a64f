package main

import "github.com/ephyskit/ephystools/cmd"

func main() {
	cmd.Execute()
}
