package main

import (
	"log"

	"github.com/voxhire/voxhire/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
