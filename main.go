package main

import "github.com/gaurav-prasanna/newsdigest/cmd"

func main() {
	cmd.Execute()
}
