package fileserver

import "sync"

// Lifecycle is handed to Server.Start by whoever decides when serving ends.
type Lifecycle struct {
	stopOnce sync.Once
	doneOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewLifecycle() *Lifecycle {
	return &Lifecycle{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// RequestStop asks the server to stop. It does not wait.
func (l *Lifecycle) RequestStop() {
	l.stopOnce.Do(func() {
		close(l.stop)
	})
}

func (l *Lifecycle) stopRequested() <-chan struct{} {
	return l.stop
}

func (l *Lifecycle) markStopped() {
	l.doneOnce.Do(func() {
		close(l.done)
	})
}

// Done is closed once the server has released its socket.
func (l *Lifecycle) Done() <-chan struct{} {
	return l.done
}

func (l *Lifecycle) IsStopped() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}
