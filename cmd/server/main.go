package main

import (
	"log"

	"fast-vote-api/internal/database"
	"fast-vote-api/internal/routes"
)

func main() {
	// Init database
	database.InitDB()

	// Setup the routes (poll API and websocket endpoint)
	ginRoutes := routes.SetupRoutes()

	// Start server
	port := ":8008" // This is customizable based on the environment
	log.Printf("Server starting on port %s", port)
	log.Println("API endpoints:")
	log.Println("  GET    /poll/assign-session")
	log.Println("  POST   /poll/create_poll")
	log.Println("  GET    /poll/get-user-polls")
	log.Println("  GET    /poll/get-poll/:id")
	log.Println("  POST   /poll/vote")
	log.Println("  DELETE /poll/:id")
	log.Println("  GET    /ws/poll/:id")
	log.Println("  GET    /health")

	if err := ginRoutes.Run(port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
