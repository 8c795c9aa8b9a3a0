package main

import "github.com/evanrichards/tree-lint-ts/internal/app"

func main() {
	app.Run()
}
