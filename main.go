package main

import "github.com/KaramelBytes/sheetloom/cmd"

func main() {
	cmd.Execute()
}
