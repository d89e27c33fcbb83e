package main

import (
	"log"
	"os"

	"s3backup/cmd"
	"s3backup/config"
	"s3backup/pkg/utils"
)

func main() {
	cnf, err := config.Load()
	if err != nil {
		utils.PrintError(err, "config")
		os.Exit(1)
	}
	if err := cmd.Execute(cnf); err != nil {
		log.Printf("Failed to execute command: %v", err)
		os.Exit(1)
	}
}
