package main

import "lovenest-backend/cmd"

func main() {
	cmd.Run()
}
