package main

import "github.com/jmehdipour/churnctl/cmd"

func main() {
	cmd.Execute()
}
