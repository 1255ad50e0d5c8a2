package hub

import (
	"log"
	"time"

	"github.com/hirehub-dev/hirehub/internal/metrics"
	"github.com/hirehub-dev/hirehub/internal/store"
)

// DefaultReplyDelay matches the original portal's simulated typing pause.
const DefaultReplyDelay = 2 * time.Second

const replyBody = "Thanks for your message! I'd be happy to discuss further. When's a good time for a call?"

// Responder synthesizes a candidate reply after each successful manager
// send. Every trigger arms its own timer; there is no coalescing and no
// cancellation. The reply targets the room, so the sender disconnecting
// does not suppress it.
type Responder struct {
	store store.Store
	hub   *Hub
	delay time.Duration
}

func newResponder(st store.Store, h *Hub, delay time.Duration) *Responder {
	if delay <= 0 {
		delay = DefaultReplyDelay
	}
	return &Responder{store: st, hub: h, delay: delay}
}

// Arm schedules one reply without blocking the caller.
func (r *Responder) Arm(projectID uint) {
	time.AfterFunc(r.delay, func() {
		r.fire(projectID)
	})
}

// fire re-validates everything it references: the project and the
// candidate may have gone away between arm and fire. Unlike the
// synchronous send path, failures here are logged and swallowed. The
// reply bypasses Send so it cannot arm another timer.
func (r *Responder) fire(projectID uint) {
	project, err := r.store.FindProjectByID(projectID)
	if err != nil {
		log.Printf("auto-reply dropped: project %d: %v", projectID, err)
		return
	}

	candidate, err := r.store.FindUser(store.UserFilter{Email: &project.SubmitterEmail})
	if err != nil {
		log.Printf("auto-reply dropped: no candidate for %s: %v", project.SubmitterEmail, err)
		return
	}

	if _, err := r.hub.deliver(projectID, candidate, replyBody); err != nil {
		log.Printf("auto-reply dropped: deliver to project %d: %v", projectID, err)
		return
	}

	metrics.AutoReplies.Inc()
}
