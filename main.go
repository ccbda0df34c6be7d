package main

import "irrigation-manager/cmd"

func main() {
	cmd.Execute()
}
