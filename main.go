package main

import (
	"log"

	"github.com/spigell/interview-screener/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
