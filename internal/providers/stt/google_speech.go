package stt

import (
	"context"
	"io"
	"sync"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
)

type GoogleSpeech struct {
	c *speech.Client

	Encoding     speechpb.RecognitionConfig_AudioEncoding
	SampleRateHz int32
	Language     string
}

// language example: "en-US", "id-ID"
func NewGoogleSpeech(ctx context.Context, language string) (*GoogleSpeech, error) {
	if language == "" {
		language = "en-US"
	}
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GoogleSpeech{
		c:            c,
		Encoding:     speechpb.RecognitionConfig_LINEAR16,
		SampleRateHz: 16000,
		Language:     language,
	}, nil
}

func (g *GoogleSpeech) Close() error { return g.c.Close() }

func (g *GoogleSpeech) NewStream(ctx context.Context) (Stream, error) {
	sctx, cancel := context.WithCancel(ctx)
	return &googleStream{
		g:      g,
		ctx:    sctx,
		cancel: cancel,
		events: make(chan Event, 32),
	}, nil
}

type googleStream struct {
	g      *GoogleSpeech
	ctx    context.Context
	cancel context.CancelFunc
	events chan Event

	mu      sync.Mutex
	rpc     speechpb.Speech_StreamingRecognizeClient
	stopped bool

	closeEvents sync.Once
}

func (s *googleStream) Start(ctx context.Context) error {
	rpc, err := s.g.c.StreamingRecognize(s.ctx)
	if err != nil {
		return err
	}

	if err := rpc.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:                   s.g.Encoding,
					SampleRateHertz:            s.g.SampleRateHz,
					LanguageCode:               s.g.Language,
					EnableAutomaticPunctuation: true,
				},
				InterimResults: true,
			},
		},
	}); err != nil {
		return err
	}

	s.mu.Lock()
	s.rpc = rpc
	s.mu.Unlock()

	go s.recvLoop(rpc)
	return nil
}

func (s *googleStream) Write(audio []byte) error {
	s.mu.Lock()
	rpc, stopped := s.rpc, s.stopped
	s.mu.Unlock()

	if stopped || rpc == nil {
		return nil
	}

	err := rpc.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
			AudioContent: audio,
		},
	})
	if err == io.EOF {
		// real error surfaces on Recv; recvLoop reports it
		return nil
	}
	return err
}

func (s *googleStream) Events() <-chan Event { return s.events }

func (s *googleStream) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	rpc := s.rpc
	s.mu.Unlock()

	if rpc != nil {
		_ = rpc.CloseSend()
	}
	s.cancel()

	if rpc == nil {
		// Start never completed; no recvLoop to close the channel
		s.closeEvents.Do(func() { close(s.events) })
	}
	return nil
}

func (s *googleStream) recvLoop(rpc speechpb.Speech_StreamingRecognizeClient) {
	defer s.closeEvents.Do(func() { close(s.events) })

	for {
		resp, err := rpc.Recv()
		if err != nil {
			s.mu.Lock()
			stopped := s.stopped
			s.mu.Unlock()
			if err == io.EOF || stopped {
				return
			}
			s.events <- Event{Kind: EventError, Err: err}
			return
		}

		for _, res := range resp.Results {
			if len(res.Alternatives) == 0 {
				continue
			}
			alt := res.Alternatives[0]
			if alt.Transcript == "" {
				continue
			}
			kind := EventInterim
			if res.IsFinal {
				kind = EventFinal
			}
			s.events <- Event{
				Kind:       kind,
				Text:       alt.Transcript,
				Confidence: float64(alt.Confidence),
			}
		}
	}
}
