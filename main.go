package main

import "kvcore/cmd"

func main() {
	cmd.Execute()
}
