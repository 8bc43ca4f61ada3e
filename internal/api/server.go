package api

import (
	"net/http"

	"serwer-kont/internal/config"
	"serwer-kont/internal/database"
	"serwer-kont/internal/media"
)

type Server struct {
	config *config.Config
	store  *database.Store
	media  media.Uploader
}

func NewServer(cfg *config.Config, store *database.Store, uploader media.Uploader) *Server {
	return &Server{
		config: cfg,
		store:  store,
		media:  uploader,
	}
}

// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  apiResponse
// @Router       /health [get]
func (s *Server) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.store.GetPool().Ping(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Database unreachable")
		return
	}
	writeJSON(w, http.StatusOK, "OK", nil)
}
