package main

import "stripe-sync/cmd"

func main() {
	cmd.Execute()
}
