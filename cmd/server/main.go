package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/picksmart/picksmart/internal/api"
	"github.com/picksmart/picksmart/internal/broker"
	"github.com/picksmart/picksmart/internal/config"
	"github.com/picksmart/picksmart/internal/correlator"
	"github.com/picksmart/picksmart/internal/pipeline"
	"github.com/picksmart/picksmart/internal/processor"
	"github.com/picksmart/picksmart/internal/services"
	"github.com/picksmart/picksmart/internal/state"
)

func main() {
	cfg := config.Load()

	store, err := state.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create PostgreSQL store: %v", err)
	}
	defer store.Close()

	var llm services.LLMClient
	if cfg.LLMProvider == "gemini" {
		llm, err = services.NewGeminiClient(cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
	} else {
		llm = services.NewGroqClient(cfg.GroqAPIKey, cfg.LLMModel)
	}

	searcher := services.NewTavilyClient(cfg.TavilyAPIKey)
	hybrid := services.NewTavilyHybridSearcher(store.Products(), searcher)
	gate := services.NewRelevanceChecker(llm, services.SystemTemplate)

	agent := pipeline.NewSearchAgent(llm, hybrid, searcher, pipeline.AgentConfig{
		MaxLocal:       cfg.MaxLocalResults,
		MaxForeign:     cfg.MaxForeignResults,
		ResolveWorkers: cfg.ResolveWorkers,
	})
	graph := agent.Graph(store.Checkpoints())

	var b broker.Broker
	if cfg.KafkaBrokers == "" {
		log.Println("KAFKA_BROKERS not set, using in-memory broker")
		b = broker.NewMemoryBroker()
	} else {
		b = broker.NewKafkaBroker(cfg.KafkaBrokers, cfg.KafkaGroupID)
	}
	defer b.Close()

	consumeCtx, cancelConsume := context.WithCancel(context.Background())
	defer cancelConsume()

	corr := correlator.New()
	inbound, err := b.Consume(consumeCtx, cfg.ResponseTopic)
	if err != nil {
		log.Fatalf("Failed to consume response topic: %v", err)
	}
	go corr.Start(consumeCtx, inbound)

	proc := processor.NewProcessor(b, corr, gate, graph, cfg.ChatTopic, cfg.ResponseTopic, cfg.ResponseWaitTimeout)

	handler := api.NewChatHandler(proc, cfg.RequestTimeout)
	threads := api.NewThreadHandler(store.Checkpoints())
	router := api.SetupRoutes(handler, threads)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")

		cancelConsume()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed to start: %v", err)
	}

	log.Println("Server stopped")
}
