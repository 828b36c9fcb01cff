package main

import "clementus360/study-assistant/cmd"

func main() {
	cmd.Execute()
}
