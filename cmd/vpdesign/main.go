// cmd/vpdesign/main.go
package main

import (
	"vpdesign/internal/app"
	"vpdesign/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
