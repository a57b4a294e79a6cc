package main

import "doc-composer/cmd"

func main() {
	cmd.Execute()
}
