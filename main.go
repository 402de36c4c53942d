package main

import "github.com/pagecraft/pagecraft/cmd"

func main() {
	cmd.Execute()
}
