package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/Zachkp/folio/cmd"
)

var version = "dev"

func main() {
	cmd.Execute(version)
}
