package main

import "NEF_Emulator/client/nef-cli/cmd"

func main() {
	cmd.Execute()
}
