package notifier

import (
	"context"
	"sync"

	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/notifier"
)

// Recorder keeps every notice in memory. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	notices []notifier.Notice
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Notify(ctx context.Context, n notifier.Notice) {
	_ = ctx
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

// Notices returns a copy of what has been recorded so far.
func (r *Recorder) Notices() []notifier.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notifier.Notice(nil), r.notices...)
}

// Last returns the most recent notice.
func (r *Recorder) Last() (notifier.Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return notifier.Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.notices = nil
	r.mu.Unlock()
}
