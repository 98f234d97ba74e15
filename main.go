package main

import (
	"github.com/perguntaquedoi/api/config"
	"github.com/perguntaquedoi/api/models"
	"github.com/perguntaquedoi/api/routes"
	"github.com/perguntaquedoi/api/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.Identity{},
		&models.Question{},
		&models.Response{},
		&models.Reaction{},
		&models.Visit{},
	)

	utils.InitRedis(cfg)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
