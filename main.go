package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"samaj_server/config"
	"samaj_server/routes"
	"samaj_server/services"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

func main() {
	cfg := config.Load()

	var store services.Store
	switch cfg.Store {
	case config.StoreMemory:
		log.Println("Using in-memory store")
		store = services.NewMemoryStore()
	default:
		log.Println("Initializing DynamoDB client...")
		dynamoClient := services.InitializeDynamoDBClient()
		store = services.NewDynamoStore(&services.DynamoService{Client: dynamoClient})
		log.Println("DynamoDB client initialized.")
	}

	chatService := &services.ChatService{Store: store}
	if cfg.Redis.Addr != "" {
		log.Printf("Using redis chat-list cache at %s", cfg.Redis.Addr)
		chatService.Cache = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		chatService.CacheTTL = 2 * time.Second
	}

	svcs := routes.Services{
		Profile:    &services.ProfileService{Store: store},
		Request:    &services.RequestService{Store: store},
		Match:      &services.MatchService{Store: store},
		Chat:       chatService,
		PublicChat: &services.PublicChatService{Store: store},
	}

	if cfg.S3Bucket != "" {
		s3Service, err := services.NewS3Service(context.Background(), cfg.AWSRegion, cfg.S3Bucket)
		if err != nil {
			log.Fatalf("Failed to initialize S3: %v", err)
		}
		svcs.S3 = s3Service
	}

	r := routes.NewRouter(svcs)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	log.Printf("Starting server on port %s...", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, corsHandler))
}
