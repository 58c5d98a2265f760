// Package main is the entry point for the valmatch CLI tool, which builds
// Valorant match statistics from match payloads and keeps a local history.
package main

import "github.com/shumm7/Valorant-DiscordBot-sub000/cmd"

func main() {
	cmd.Execute()
}
