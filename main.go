package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/allokoli/configurator/config"
	"github.com/allokoli/configurator/flow"
	"github.com/allokoli/configurator/gateway"
	"github.com/allokoli/configurator/server"
	"github.com/allokoli/configurator/session"
	"github.com/allokoli/configurator/store"
	"github.com/allokoli/configurator/transport"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Create session manager
	sessionManager, err := session.NewManager(cfg)
	if err != nil {
		log.Fatalf("Failed to create session manager: %v", err)
	}

	// Persistence is optional; without it the dialogue still runs, final
	// configurations just are not recorded.
	var recorder flow.Recorder
	if cfg.SupabaseURL != "" {
		st, err := store.New(store.Config{URL: cfg.SupabaseURL, APIKey: cfg.SupabaseKey})
		if err != nil {
			log.Printf("⚠️ Supabase store unavailable, continuing without persistence: %v", err)
		} else {
			recorder = st
		}
	}

	engine := flow.NewEngine(gateway.NewClient(cfg), recorder, cfg.DefaultAreaCode)

	// Start cleanup routine
	ctx, cancel := context.WithCancel(context.Background())
	go sessionManager.StartCleanupRoutine(ctx)

	// Optional NATS transport, alongside whichever servers run
	var natsTransport *transport.NATSTransport
	if cfg.NatsURL != "" {
		natsTransport, err = transport.NewNATSTransport(cfg, engine, sessionManager)
		if err != nil {
			log.Fatalf("Failed to connect NATS transport: %v", err)
		}
		if err := natsTransport.Start(); err != nil {
			log.Fatalf("Failed to start NATS transport: %v", err)
		}
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	shutdownAll := func(servers ...interface {
		Shutdown(context.Context) error
	}) {
		cancel()
		if natsTransport != nil {
			_ = natsTransport.Close()
		}
		sessionManager.Shutdown()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("Server shutdown error: %v", err)
			}
		}
	}

	switch cfg.ServerType {
	case "http":
		srv := server.NewHTTPServer(cfg, engine, sessionManager)

		go func() {
			<-sigChan
			log.Println("\nReceived shutdown signal...")
			shutdownAll(srv)
		}()

		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Fatalf("Chat server error: %v", err)
		}

	case "voice":
		voiceSrv := server.NewVoiceServer(cfg, engine, sessionManager)

		go func() {
			<-sigChan
			log.Println("\nReceived shutdown signal...")
			shutdownAll(voiceSrv)
		}()

		if err := voiceSrv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Fatalf("Voice server error: %v", err)
		}

	case "both":
		srv := server.NewHTTPServer(cfg, engine, sessionManager)
		voiceSrv := server.NewVoiceServer(cfg, engine, sessionManager)

		go func() {
			<-sigChan
			log.Println("\nReceived shutdown signal...")
			shutdownAll(srv, voiceSrv)
		}()

		// Start voice server in background
		go func() {
			if err := voiceSrv.Start(); err != nil && err.Error() != "http: Server closed" {
				log.Fatalf("Voice server error: %v", err)
			}
		}()

		// Start chat server (blocks)
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Fatalf("Chat server error: %v", err)
		}

	default:
		log.Fatalf("Unknown SERVER_TYPE: %s", cfg.ServerType)
	}

	log.Println("Server stopped")
}
