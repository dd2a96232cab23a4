package main

import "github.com/oshokin/asar-pipeline/cmd/asar-pipeline/cmd"

func main() {
	cmd.Execute()
}
