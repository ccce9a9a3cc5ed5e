package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/linkboard/api/internal/database/migrations"
	"github.com/linkboard/api/internal/database/sqldb"
	"github.com/linkboard/api/internal/middleware/requestid"
	"github.com/linkboard/api/internal/middleware/usercontext"
	"github.com/linkboard/api/internal/pkg/log"
	platformconfig "github.com/linkboard/api/internal/platform/config"
	"github.com/linkboard/api/internal/types"
	"github.com/linkboard/api/loaders"
	"github.com/linkboard/api/posts"
	postHandlers "github.com/linkboard/api/posts/handlers"
	postRepository "github.com/linkboard/api/posts/repository"
	postServices "github.com/linkboard/api/posts/services"
	"github.com/linkboard/api/users"
	userHandlers "github.com/linkboard/api/users/handlers"
	userRepository "github.com/linkboard/api/users/repository"
	userServices "github.com/linkboard/api/users/services"
	"github.com/linkboard/api/votes"
	voteHandlers "github.com/linkboard/api/votes/handlers"
	voteRepository "github.com/linkboard/api/votes/repository"
	voteServices "github.com/linkboard/api/votes/services"
)

func main() {
	cfg, err := platformconfig.LoadFromEnv()
	if err != nil {
		log.Error("Failed to load platform config: %v", err)
		os.Exit(1)
	}

	log.SetDebug(cfg.Server.Debug)
	log.DebugStruct("server config", cfg.Server)

	ctx := context.Background()
	client, err := sqldb.NewClient(ctx, cfg.Database)
	if err != nil {
		log.Error("Failed to create database client: %v", err)
		os.Exit(1)
	}
	defer client.Close()

	if cfg.Database.AutoMigrate {
		if err := migrations.Apply(ctx, client); err != nil {
			log.Error("Failed to apply migrations: %v", err)
			os.Exit(1)
		}
		log.Info("Schema is up to date (%s)", client.Driver())
	}

	// Repositories share one pool; a transaction in the context spans all of them
	postRepo := postRepository.NewSQLRepository(client)
	userRepo := userRepository.NewSQLRepository(client)
	voteRepo := voteRepository.NewSQLVoteRepository(client)

	postService := postServices.NewPostService(postRepo, userRepo, voteRepo, postServices.Paging{
		DefaultLimit: cfg.App.DefaultPageLimit,
		MaxLimit:     cfg.App.MaxPageLimit,
	})
	userService := userServices.NewUserService(userRepo)
	voteService := voteServices.NewVoteService(voteRepo, postRepo)

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			log.ErrorWithContext(c.UserContext(), "path %s failed with %d: %v", c.Path(), code, err)

			// If response already set by handler, don't override it
			if len(c.Response().Body()) > 0 {
				return nil
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	if cfg.Server.WebDomain != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.WebDomain,
			AllowCredentials: true,
			AllowHeaders:     fmt.Sprintf("Origin, Content-Type, Accept, %s, %s", types.HeaderUID, types.HeaderRequestID),
			AllowMethods:     "GET, POST, DELETE, OPTIONS",
		}))
	}
	app.Use(requestid.New())
	app.Use(usercontext.New())
	app.Use(loaders.Middleware(userRepo, voteRepo))

	app.Get("/health", func(c *fiber.Ctx) error {
		hctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := client.HealthCheck(hctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	posts.RegisterRoutes(app, &posts.PostsHandlers{PostHandler: postHandlers.NewPostHandler(postService)})
	users.RegisterRoutes(app, &users.UsersHandlers{UserHandler: userHandlers.NewUserHandler(userService)})
	votes.RegisterRoutes(app, &votes.VotesHandlers{VoteHandler: voteHandlers.NewVoteHandler(voteService)})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("Shutdown failed: %v", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("Listening on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Error("Server stopped: %v", err)
		os.Exit(1)
	}
}
