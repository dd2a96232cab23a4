package main

import "github.com/oshokin/asar-pipeline/cmd/asar-patcher/cmd"

func main() {
	cmd.Execute()
}
