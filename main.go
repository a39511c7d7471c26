package main

import (
	"log"
	"os"

	"sufra-pos/config"
	httpapi "sufra-pos/internal/api/http"
	"sufra-pos/internal/service"
	"sufra-pos/internal/storage"
)

func main() {
	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	kafkaWriter := config.NewKafkaWriter("order-events")
	defer kafkaWriter.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	cache := storage.NewRedisCache(rdb)
	counter := storage.NewRedisCounter(rdb)
	publisher := storage.NewKafkaPublisher(kafkaWriter)

	lookup := service.NewCatalogLookup(repo)
	validator := service.NewItemValidator(lookup)
	numbers := service.NewOrderNumberGenerator(counter)

	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	qr := service.DefaultQRGenerator{BaseURL: baseURL}

	orderSvc := service.NewOrderService(repo, repo, validator, numbers, cache, publisher, qr)

	handler := httpapi.NewHandler(orderSvc)
	router := httpapi.NewRouter(handler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	httpapi.StartServer(":"+port, router)
}
