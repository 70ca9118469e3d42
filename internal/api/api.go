package api

import (
	"context"
	"log"
	"strings"
	"time"

	api_utils "github.com/ethanbaker/api/pkg/utils"
	"github.com/ethanbaker/fanchat/internal/dify"
	"github.com/ethanbaker/fanchat/internal/images"
	"github.com/ethanbaker/fanchat/internal/sheets"
	"github.com/ethanbaker/fanchat/internal/stores/transcript"
	"github.com/ethanbaker/fanchat/pkg/persona"
	"github.com/ethanbaker/fanchat/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	chat_module "github.com/ethanbaker/fanchat/internal/api/modules/chat"
	export_module "github.com/ethanbaker/fanchat/internal/api/modules/export"
	health_module "github.com/ethanbaker/fanchat/internal/api/modules/health"
	image_module "github.com/ethanbaker/fanchat/internal/api/modules/image"
	persona_module "github.com/ethanbaker/fanchat/internal/api/modules/persona"
)

func Start(cfg *utils.Config) {
	// Initialized configuration settings
	port := cfg.GetWithDefault("API_PORT", "8080")

	// Load the persona registry; without personas there is nothing to chat with
	registry, err := persona.Load(cfg.GetWithDefault("PERSONAS_CONFIG", "personas.yml"), cfg)
	if err != nil {
		log.Fatal("[API-MAIN]: Failed to load personas: ", err)
	}

	// Active sessions live in memory; Sheets is the durable log
	store := transcript.NewInMemoryStore()
	relay := dify.NewClient(cfg.Get("DIFY_BASE_URL"))

	// Sheets logging is optional; without it chat still works but history is
	// not persisted or resumable
	var sheetsService *sheets.Service
	if cfg.Get("GOOGLE_SERVICE_ACCOUNT_JSON") != "" {
		sheetsService, err = sheets.NewService(context.Background(), cfg)
		if err != nil {
			log.Fatal("[API-MAIN]: Failed to initialize sheets service: ", err)
		}

		if err := sheetsService.EnsureWorksheet(context.Background()); err != nil {
			log.Fatal("[API-MAIN]: Failed to prepare log worksheet: ", err)
		}
	} else {
		log.Print("[API-MAIN]: GOOGLE_SERVICE_ACCOUNT_JSON not set, chat logs will not be persisted")
	}

	// Image generation is optional as well
	var imageService *images.Service
	if cfg.Get("OPENAI_API_KEY") != "" {
		imageService, err = images.NewService(cfg)
		if err != nil {
			log.Fatal("[API-MAIN]: Failed to initialize image service: ", err)
		}
	} else {
		log.Print("[API-MAIN]: OPENAI_API_KEY not set, image generation disabled")
	}

	// Add app level settings/routes
	engine := gin.Default()
	engine.NoRoute(api_utils.NoRouteHandler)

	// Add trusted proxies
	engine.SetTrustedProxies(nil)

	// Add CORS using gin-contrib/cors (https://github.com/gin-contrib/cors for documentation)
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.GetWithDefault("CORS_ALLOWED_ORIGINS", "*"), ","),
		AllowMethods:     []string{"OPTIONS", "GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Base group '/api' for all API routes
	baseGroup := engine.Group("/api")

	// Adding custom modules
	health_module.RegisterRoutes(baseGroup)
	persona_module.RegisterRoutes(baseGroup, persona_module.New(registry))

	chatController := chat_module.New(cfg, store, registry, relay, sheetsService)
	chat_module.RegisterRoutes(baseGroup, chatController)

	export_module.RegisterRoutes(baseGroup, export_module.New(store, sheetsService))
	image_module.RegisterRoutes(baseGroup, image_module.New(store, imageService))

	// Then after performing initial setup, start the server
	if err := engine.Run(":" + port); err != nil {
		log.Fatal("[API-MAIN]: Failed to start server: ", err)
	}
}
