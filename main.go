package main

import "fundix_e2e/presentation/terminal"

func main() {
	terminal.Execute()
}
