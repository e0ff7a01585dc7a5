package main

import "blogrig-server/cmd"

func main() {
	cmd.Execute()
}
