package meeting

import (
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/speaksuit/speaksuit/internal/cache"
	"github.com/speaksuit/speaksuit/internal/providers/enrich"
	"github.com/speaksuit/speaksuit/internal/providers/stt"
	mongorepo "github.com/speaksuit/speaksuit/internal/repositories/mongo"
	pgrepo "github.com/speaksuit/speaksuit/internal/repositories/postgres"
	"github.com/speaksuit/speaksuit/internal/storage"
)

// Hub bundles the process-wide collaborators every Session needs. Cache and
// Archive are optional; nil disables them.
type Hub struct {
	Registry    *Registry
	STT         stt.Provider
	Enricher    enrich.Provider
	Utterances  pgrepo.UtteranceRepo
	Enrichments mongorepo.EnrichmentRepo
	Cache       cache.Cache
	Archive     storage.Uploader
	Logger      *logrus.Logger

	router *Router
}

func (h *Hub) Init() error {
	if h.STT == nil || h.Enricher == nil || h.Utterances == nil || h.Enrichments == nil {
		return errors.New("meeting.Hub missing dependency: STT/Enricher/Utterances/Enrichments must be set")
	}
	if h.Registry == nil {
		h.Registry = NewRegistry()
	}
	if h.Logger == nil {
		h.Logger = logrus.New()
	}
	h.router = NewRouter(h.Registry, h.Logger)
	return nil
}

// NewSession wraps one accepted connection. The caller runs it with Run and
// owns its lifetime.
func (h *Hub) NewSession(conn Conn) *Session {
	id := uuid.NewString()
	return &Session{
		id:   id,
		hub:  h,
		conn: conn,
		log:  h.Logger.WithField("session_id", id),
	}
}
