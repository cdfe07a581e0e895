package main

import "github.com/KaramelBytes/inflammation/cmd"

func main() {
	cmd.Execute()
}
