package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/DaneshVerma/CitySettel/startup"
	"github.com/DaneshVerma/CitySettel/startup/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	cfg := config.NewConfig()
	server := startup.NewServer(cfg)
	server.Start()
}
