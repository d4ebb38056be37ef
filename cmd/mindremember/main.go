package main

import (
	"log"

	"github.com/Gratix0/FastapiMindRememberAPI/cmd/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
