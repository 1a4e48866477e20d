package main

import "github.com/Tiliavir/life-desks/cmd"

func main() {
	cmd.Execute()
}
