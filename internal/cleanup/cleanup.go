// Package cleanup runs registered rollback actions when the process is
// interrupted. A caller that creates a resource it may need to undo registers
// a Guard; cancelling the Guard (normally via defer) makes the action
// permanent. Actions only fire on SIGINT/SIGTERM, so work that survives to
// the end of its scope is never rolled back.
package cleanup

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/sirupsen/logrus"
)

// Guard identifies a registered rollback action until it is cancelled.
type Guard struct {
	id int
}

var (
	mu        sync.Mutex
	actions   = map[int]func(){}
	nextID    int
	installed bool
)

// Register adds a rollback action to run if the process is interrupted.
// The returned Guard must be cancelled once the protected work is complete.
func Register(fn func()) *Guard {
	mu.Lock()
	defer mu.Unlock()

	nextID++
	g := &Guard{id: nextID}
	actions[g.id] = fn

	if !installed {
		installed = true
		installHandler()
	}

	return g
}

// Cancel removes the guard's action so it will never run. Safe to call more
// than once.
func (g *Guard) Cancel() {
	mu.Lock()
	defer mu.Unlock()
	delete(actions, g.id)
}

// installHandler starts the signal listener. Called with mu held, once.
func installHandler() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logrus.WithField("signal", sig).Debug("interrupted, running rollback actions")
		runAll()
		signal.Stop(sigCh)
		if s, ok := sig.(syscall.Signal); ok {
			os.Exit(128 + int(s))
		}
		os.Exit(1)
	}()
}

// runAll executes and clears every pending action. Registration order is not
// significant: each action owns an independent resource.
func runAll() {
	mu.Lock()
	pending := actions
	actions = map[int]func(){}
	mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}
