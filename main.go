package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/realtime-chat-demo/modules/broadcast"
	"github.com/example/realtime-chat-demo/modules/chat"
	"github.com/example/realtime-chat-demo/modules/gateway"
	"github.com/example/realtime-chat-demo/modules/presence"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Realtime Chat - Fiber + EventBus Pubsub ===")

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	logger := app.Logger()

	// Create modules
	presenceModule := presence.NewModule(logger)
	chatModule := chat.NewModule(presenceModule, logger)
	broadcastModule := broadcast.NewModule(logger)
	gatewayModule := gateway.NewModule(presenceModule, chatModule, logger)

	// Inject the broadcast hub into the gateway
	// (the hub is not exposed via ServiceContainer)
	gatewayModule.SetHub(broadcastModule.Hub())

	// Register modules with the framework.
	// Order: independent modules first, then modules with dependencies
	// - presence: registry + typing (event emitter)
	// - chat: room directory + routing (services + event emitter)
	// - broadcast: WebSocket hub (event consumer)
	// - gateway: Fiber HTTP/WebSocket server (depends on chat)
	app.Register(presenceModule)
	app.Register(chatModule)
	app.Register(broadcastModule)
	app.Register(gatewayModule)

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("REST API (http://localhost:%s):", port)
	log.Println("  GET    /health                    - Health check")
	log.Println("  GET    /api/v1/users              - Who is online")
	log.Println("  GET    /api/v1/rooms              - List all rooms")
	log.Println("  POST   /api/v1/rooms              - Create a room")
	log.Println("  GET    /api/v1/rooms/:id/history  - Room message history")
	log.Println("")
	log.Printf("WebSocket endpoint: ws://localhost:%s/ws", port)
	log.Println("  Inbound frames:  identify, create_room, join_room, send_message,")
	log.Println("                   private_message, typing, toggle_reaction")
	log.Println("  Outbound frames: connected, user_list, user_joined, user_left,")
	log.Println("                   room_list, joined_room, room_backfill, message,")
	log.Println("                   reactions_updated, typing_users, error")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
