package api

import (
	"github.com/gorilla/mux"
)

func SetupRoutes(chatHandler *ChatHandler, threadHandler *ThreadHandler) *mux.Router {
	r := mux.NewRouter()

	r.Use(CORSMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	r.HandleFunc("/api/chat", chatHandler.Chat).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/healthz", chatHandler.Health).Methods("GET")

	if threadHandler != nil {
		r.HandleFunc("/api/threads/{threadID}", threadHandler.GetThread).Methods("GET")
	}

	return r
}
