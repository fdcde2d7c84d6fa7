package gazette

import (
	"sync"
	"time"

	"github.com/bilgisen/gazette/internal/models"
)

// notifier is the single notification slot. A new publish replaces the
// message and restarts the dismissal window; the previous timer is stopped,
// and the generation check discards a timer that fired before it could be.
type notifier struct {
	mu         *sync.Mutex // the owning store's lock
	delay      time.Duration
	current    models.Notification
	timer      *time.Timer
	generation uint64
}

// raise must be called with mu held
func (n *notifier) raise(message, issueID string) {
	n.stop()
	n.generation++
	n.current = models.Notification{
		Message: message,
		Visible: true,
		IssueID: issueID,
	}

	gen := n.generation
	n.timer = time.AfterFunc(n.delay, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if n.generation != gen {
			return
		}
		n.current = models.Notification{}
		n.timer = nil
	})
}

// clear must be called with mu held
func (n *notifier) clear() {
	n.stop()
	n.generation++
	n.current = models.Notification{}
}

func (n *notifier) stop() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}
