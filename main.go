package main

import "github.com/theirongolddev/envel/cmd"

func main() {
	cmd.Execute()
}
