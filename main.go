package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"snake-rooms/auth"
	"snake-rooms/config"
	"snake-rooms/game"
	"snake-rooms/handlers"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to server config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	registry := game.NewRegistry()
	tokens := auth.NewService(cfg.Auth.TokenSecret, cfg.Auth.TokenExpire.Std())

	wsHandler := handlers.NewWebSocketHandler(registry, tokens, cfg.Server)
	roomInfo := auth.Middleware(tokens)(handlers.NewRoomInfoHandler(registry))

	http.Handle("/ws", wsHandler)
	http.Handle("/api/rooms/", roomInfo)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	http.Handle("/", http.FileServer(http.Dir(cfg.Server.StaticDir)))

	addr := cfg.Server.Addr
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	log.Printf("Server starting on %s", addr)
	log.Printf("WebSocket endpoint: /ws")
	log.Fatal(http.ListenAndServe(addr, nil))
}
