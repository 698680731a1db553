package main

import "github.com/almajalla/majalla/cmd"

func main() {
	cmd.Execute()
}
