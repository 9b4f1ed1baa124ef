package watchers

import (
	"os"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWatchers(t *testing.T) {
	t.Run("test interrupt watcher is not interrupted when not started", func(t *testing.T) {
		bgInterruptWatcher := InitializeBackgroundInterruptWatcher()
		assert.False(t, bgInterruptWatcher.IsInterrupted(), "expected to not be interrupted, but was interrupted")
	})

	t.Run("test interrupt watcher when started and interrupted is interrupted", func(t *testing.T) {
		bgInterruptWatcher := InitializeBackgroundInterruptWatcher()
		bgInterruptWatcher.StartBackgroundWatcher()
		time.Sleep(time.Millisecond * 40)
		assert.False(t, bgInterruptWatcher.IsInterrupted(), "expected to not be interrupted before the signal")
		bgInterruptWatcher.ForceSIGTERM()
		select {
		case <-bgInterruptWatcher.Interrupted():
		case <-time.After(time.Second):
			t.Fatal("interrupted channel was not closed")
		}
		assert.True(t, bgInterruptWatcher.IsInterrupted(), "expected to be interrupted after the signal")
	})

	t.Run("test forced interrupt unregisters the signal channel", func(t *testing.T) {
		bgInterruptWatcher := InitializeBackgroundInterruptWatcher()
		bgInterruptWatcher.StartBackgroundWatcher()
		bgInterruptWatcher.ForceSIGTERM()

		guard := make(chan os.Signal, 1)
		signal.Notify(guard, syscall.SIGTERM)
		defer signal.Stop(guard)

		assert.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))
		select {
		case <-guard:
		case <-time.After(time.Second):
			t.Fatal("signal was not delivered")
		}
	})
}
