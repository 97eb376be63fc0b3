package main

import "github.com/rawbytedev/binmap/cmd/binmap/cmd"

func main() {
	cmd.Execute()
}
