package main

import "github.com/deploymenttheory/go-iostash/cmd"

func main() {
	cmd.Execute()
}
