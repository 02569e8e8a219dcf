package meeting

import "github.com/sirupsen/logrus"

// Router delivers a payload to every Session registered in a meeting at call
// time. Delivery is best-effort: a member whose connection is already gone is
// skipped without affecting the rest.
type Router struct {
	registry *Registry
	log      *logrus.Logger
}

func NewRouter(registry *Registry, log *logrus.Logger) *Router {
	return &Router{registry: registry, log: log}
}

func (r *Router) Broadcast(meetingID string, frame []byte) {
	for _, s := range r.registry.MembersOf(meetingID) {
		if err := s.sendText(frame); err != nil {
			r.log.WithError(err).WithFields(logrus.Fields{
				"meeting_id": meetingID,
				"session_id": s.id,
			}).Debug("broadcast delivery dropped")
		}
	}
}
