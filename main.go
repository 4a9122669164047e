package main

import (
	"log"
	"net/http"
	"os"

	"github.com/andrisetya/go-catalog/app/cmd"
	"github.com/andrisetya/go-catalog/app/configs"
	"github.com/andrisetya/go-catalog/app/routes"
)

func main() {

	env := configs.LoadEnv()
	if len(os.Args) > 1 {
		cmd.RunCli()
		return
	}

	if env.JWTSecret == "" {
		log.Fatal("JWT_SECRET is empty! Please check your .env file.")
	}

	db, err := configs.OpenConnection()
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	log.Println("Database connected.")

	router := routes.NewRouter(db, env)

	server := http.Server{
		Addr:    env.Port,
		Handler: router,
	}

	log.Printf("Server starting on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Println("failed to start the server:", err)
	}

}
