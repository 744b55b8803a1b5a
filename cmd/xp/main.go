package main

import "xptrack/cmd/xp/root"

func main() {
	root.Execute()
}
