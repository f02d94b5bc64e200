package main

import "tiretrack/cmd"

func main() {
	cmd.Execute()
}
