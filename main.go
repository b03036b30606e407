package main

import "github.com/theirongolddev/tend/cmd"

func main() {
	cmd.Execute()
}
