package main

import "github.com/tonhe/ifwatch/cmd"

func main() {
	cmd.Execute()
}
