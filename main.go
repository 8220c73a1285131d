package main

import (
	"context"
	"log"
	"os"

	"library_circulation/app"
	"library_circulation/config"
	"library_circulation/db"
	"library_circulation/routes"
	"library_circulation/sweeper"
)

func main() {
	config.LoadEnv()

	application := app.MustNew()
	defer application.Close()

	repo := db.NewRepo(application.DB)
	app.BootstrapFirstManager(context.Background(), application.Config, repo)

	sweep := sweeper.New(repo, sweeper.LogNotifier{})
	sched, err := sweeper.NewScheduler(sweep, application.RDB, application.Config.SweepHour)
	if err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	sched.Start()
	defer func() { _ = sched.Stop() }()

	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	routes.RegisterRoutes(r, application, sweep)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	log.Printf("listening on :%s", port)
	_ = r.Run(":" + port)
}
