package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/config"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/routes"
)

func main() {
	// Charge .env puis lit la configuration une seule fois
	config.Load()
	cfg := config.New()

	// Connexions ScyllaDB (3 keyspaces), Redis, Elasticsearch, MinIO
	database.ConnectDatabases()
	defer database.CloseScylla()

	database.InitPreparedStatements()

	r := gin.Default()
	routes.RegisterRoutes(r, cfg)

	log.Println("🚀 Serveur démarré sur le port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("❌ Impossible de démarrer le serveur:", err)
	}
}
