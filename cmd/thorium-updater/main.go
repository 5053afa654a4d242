package main

import "github.com/oshokin/thorium-updater/cmd/thorium-updater/cmd"

func main() {
	cmd.Execute()
}
