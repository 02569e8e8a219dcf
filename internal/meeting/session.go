package meeting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/speaksuit/speaksuit/internal/cache"
	"github.com/speaksuit/speaksuit/internal/models"
	"github.com/speaksuit/speaksuit/internal/providers/stt"
	"gorm.io/datatypes"
)

const (
	readTimeout    = 60 * time.Second
	writeTimeout   = 10 * time.Second
	replayCacheTTL = 5 * time.Minute
)

type sessionState int

const (
	stateAwaitingHandshake sessionState = iota
	stateStreaming
	stateClosed
)

// Conn is the subset of *websocket.Conn the Session uses.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

type joinMessage struct {
	UserID    string `json:"userId"`
	MeetingID string `json:"meetingId"`
}

type finalUtterance struct {
	text       string
	confidence float64
}

// Session is the server-side state for one connection's lifetime. The first
// inbound message must be the join message; after that, binary frames are
// audio and flow into the recognition stream. Interim and final transcripts
// go back to this connection only; enrichment results fan out to the whole
// meeting.
type Session struct {
	id   string
	hub  *Hub
	conn Conn
	log  *logrus.Entry

	writeMu sync.Mutex

	// owned by the read loop
	state     sessionState
	userID    string
	meetingID string
	stream    stt.Stream
	audioBuf  bytes.Buffer

	finals       chan finalUtterance
	pumpDone     chan struct{}
	pipelineDone chan struct{}

	closeOnce sync.Once
}

// Run processes the connection until it closes. Inbound messages are handled
// one at a time in arrival order; audio frames are never reordered.
func (s *Session) Run(ctx context.Context) {
	defer s.close()

	_ = s.conn.SetReadDeadline(time.Now().Add(readTimeout))
	s.conn.SetPongHandler(func(string) error {
		_ = s.conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		mt, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(readTimeout))

		switch s.state {
		case stateAwaitingHandshake:
			if !s.handshake(ctx, mt, data) {
				return
			}
		case stateStreaming:
			if mt != websocket.BinaryMessage {
				// the far side audio pipeline may still be negotiating
				continue
			}
			if s.hub.Archive != nil {
				s.audioBuf.Write(data)
			}
			if err := s.stream.Write(data); err != nil {
				s.log.WithError(err).Error("audio write failed")
				_ = s.sendText([]byte("Server error: recognition failed."))
				return
			}
		}
	}
}

// handshake validates the join message, replays the meeting's history to this
// connection, and starts the recognition stream. Returns false on any fatal
// condition; the caller closes the session.
func (s *Session) handshake(ctx context.Context, mt int, data []byte) bool {
	var join joinMessage
	if mt != websocket.TextMessage || json.Unmarshal(data, &join) != nil {
		_ = s.sendText([]byte("Error: Initial message must be valid JSON."))
		return false
	}
	if join.UserID == "" || join.MeetingID == "" {
		_ = s.sendText([]byte("Error: Missing userId or meetingId."))
		return false
	}

	s.userID = join.UserID
	s.meetingID = join.MeetingID
	s.log = s.log.WithFields(logrus.Fields{
		"user_id":    s.userID,
		"meeting_id": s.meetingID,
	})

	s.hub.Registry.Join(s.meetingID, s)
	s.replayHistory(ctx)

	stream, err := s.hub.STT.NewStream(ctx)
	if err != nil {
		s.log.WithError(err).Error("recognizer init failed")
		_ = s.sendText([]byte("Server error: Unable to initialize speech recognizer."))
		return false
	}
	s.stream = stream

	if err := stream.Start(ctx); err != nil {
		s.log.WithError(err).Error("recognition start failed")
		_ = s.sendText([]byte("Server error: recognition failed."))
		return false
	}

	s.finals = make(chan finalUtterance, 16)
	s.pumpDone = make(chan struct{})
	s.pipelineDone = make(chan struct{})
	go s.pumpEvents()
	go s.runPipeline()

	s.state = stateStreaming
	s.log.Info("joined meeting")
	return true
}

// replayHistory sends every persisted enrichment for the meeting to this
// connection, oldest first. A history outage degrades to an empty replay.
//
// The cached frame list is keyed by the meeting's enrichment generation, and
// the generation is read before the store. An enrichment written while this
// replay is in flight bumps the generation, so the backfill below lands under
// a generation no later joiner reads and cannot mask the newer record.
func (s *Session) replayHistory(ctx context.Context) {
	var (
		key      string
		frames   []string
		useCache bool
	)
	if s.hub.Cache != nil {
		gen, err := s.hub.Cache.GetInt64(ctx, cache.MeetingResultsGen(s.meetingID))
		if err != nil {
			s.log.WithError(err).Warn("replay cache read failed")
		} else {
			useCache = true
			key = cache.MeetingResultsKey(s.meetingID, gen)
			hit, err := s.hub.Cache.GetJSON(ctx, key, &frames)
			if err != nil {
				s.log.WithError(err).Warn("replay cache read failed")
				useCache = false
			}
			if hit {
				for _, f := range frames {
					_ = s.sendText([]byte(f))
				}
				return
			}
		}
	}

	recs, err := s.hub.Enrichments.ReplayByMeeting(ctx, s.meetingID)
	if err != nil {
		s.log.WithError(err).Warn("history replay unavailable")
		return
	}

	frames = frames[:0]
	for _, rec := range recs {
		f := resultFrame(rec.UserID, rec.Summary, rec.Explanations)
		frames = append(frames, string(f))
		_ = s.sendText(f)
	}

	if useCache && len(frames) > 0 {
		if err := s.hub.Cache.SetJSON(ctx, key, frames, replayCacheTTL); err != nil {
			s.log.WithError(err).Debug("replay cache write failed")
		}
	}
}

// pumpEvents forwards recognition events to the connection in emission order.
// Finals are handed to the pipeline before the next event is read, so
// broadcasts are submitted in final order.
func (s *Session) pumpEvents() {
	defer close(s.pumpDone)

	for ev := range s.stream.Events() {
		switch ev.Kind {
		case stt.EventInterim:
			_ = s.sendText([]byte(ev.Text))
		case stt.EventFinal:
			_ = s.sendText([]byte(ev.Text))
			s.finals <- finalUtterance{text: ev.Text, confidence: ev.Confidence}
		case stt.EventError:
			s.log.WithError(ev.Err).Error("recognition canceled")
			msg := "unknown error"
			if ev.Err != nil {
				msg = ev.Err.Error()
			}
			_ = s.sendText([]byte("Recognition canceled: " + msg))
			// unblocks the read loop; close() does the rest
			_ = s.conn.Close()
		}
	}
}

// runPipeline processes finalized utterances sequentially for this session.
// It deliberately outlives connection close: finals accepted before close
// still enrich and broadcast, and the Router drops the closed originator.
func (s *Session) runPipeline() {
	defer close(s.pipelineDone)

	ctx := context.Background()
	for f := range s.finals {
		s.finalize(ctx, f)
	}
}

// finalize runs the write-utterance → enrich → write-enrichment → broadcast
// stages. Storage failures are logged and never block later stages; an
// enrichment failure is reported to the originator only.
func (s *Session) finalize(ctx context.Context, f finalUtterance) {
	meta, _ := json.Marshal(map[string]any{"confidence": f.confidence})
	utt := &models.Utterance{
		ID:        uuid.NewString(),
		MeetingID: s.meetingID,
		UserID:    s.userID,
		Text:      f.text,
		Metadata:  datatypes.JSON(meta),
		Timestamp: time.Now().UTC(),
	}
	if err := s.hub.Utterances.Insert(ctx, utt); err != nil {
		s.log.WithError(err).Error("utterance write failed")
	}

	res, err := s.hub.Enricher.Enrich(ctx, f.text, s.userID, s.meetingID)
	if err != nil {
		s.log.WithError(err).Error("enrichment failed")
		_ = s.sendText([]byte("Error processing summary."))
		return
	}

	explanations := models.FilterExplanations(res.Explanations)
	rec := &models.EnrichmentRecord{
		MeetingID:    s.meetingID,
		UserID:       s.userID,
		Summary:      res.Summary,
		Explanations: explanations,
		Timestamp:    time.Now().UTC(),
	}
	if err := s.hub.Enrichments.Insert(ctx, rec); err != nil {
		// a store outage must not drop the live broadcast
		s.log.WithError(err).Error("enrichment write failed")
	} else if s.hub.Cache != nil {
		gen, err := s.hub.Cache.Incr(ctx, cache.MeetingResultsGen(s.meetingID))
		if err != nil {
			s.log.WithError(err).Debug("replay cache invalidation failed")
		} else if err := s.hub.Cache.Del(ctx, cache.MeetingResultsKey(s.meetingID, gen-1)); err != nil {
			s.log.WithError(err).Debug("replay cache invalidation failed")
		}
	}

	s.hub.router.Broadcast(s.meetingID, resultFrame(s.userID, res.Summary, explanations))
}

func (s *Session) sendText(b []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, b)
}

// close tears the session down: stop the stream, deregister, close the
// connection, flush the audio archive. Idempotent; safe from any state.
func (s *Session) close() {
	s.closeOnce.Do(func() {
		s.state = stateClosed

		if s.stream != nil {
			_ = s.stream.Stop()
		}
		s.hub.Registry.Leave(s.meetingID, s)
		_ = s.conn.Close()

		if s.pumpDone != nil {
			<-s.pumpDone
			close(s.finals)
		}

		s.flushArchive()
		s.log.Info("session closed")
	})
}

func (s *Session) flushArchive() {
	if s.hub.Archive == nil || s.audioBuf.Len() == 0 || s.meetingID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	object := fmt.Sprintf("meetings/%s/%s.pcm", s.meetingID, s.id)
	if _, err := s.hub.Archive.Upload(ctx, object, "audio/L16", bytes.NewReader(s.audioBuf.Bytes())); err != nil {
		s.log.WithError(err).Warn("audio archive upload failed")
	}
}
