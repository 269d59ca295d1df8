package main

import "github.com/lawnchairsociety/questabletractor/cmd/questctl/root"

func main() {
	root.Execute()
}
