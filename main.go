package main

import "github.com/avhart/spotify-history-tools/cmd"

func main() {
	cmd.Execute()
}
