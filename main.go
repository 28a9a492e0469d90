package main

import (
	"compstats.gg/backend/cmd/app"
)

func main() {
	app.Run()
}
