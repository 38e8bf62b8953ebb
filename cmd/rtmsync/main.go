package main

import "rtmsync/cmd/rtmsync/cmd"

func main() {
	cmd.Execute()
}
