package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

// NewKeepaliveServer returns the HTTP server hosting providers use to
// check the process is alive.
func NewKeepaliveServer(addr string) *http.Server {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("Bot is running!")); err != nil {
			log.Errorf("Error writing keepalive response: %v", err)
		}
	})

	return &http.Server{
		Addr:    addr,
		Handler: r,
	}
}
