package watchers

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"wa-highlighter/core"
)

var _ core.InterruptWatcher = (*BackgroundWatcher)(nil)

type BackgroundWatcher struct {
	signalChan         chan os.Signal
	interruptedChan    chan struct{}
	isInterrupted      bool
	isInterruptedMutex sync.Mutex
}

func InitializeBackgroundInterruptWatcher() *BackgroundWatcher {
	signalChan := make(chan os.Signal, 1)
	return &BackgroundWatcher{signalChan: signalChan, interruptedChan: make(chan struct{}), isInterrupted: false, isInterruptedMutex: sync.Mutex{}}
}

func (bw *BackgroundWatcher) StartBackgroundWatcher() {
	signal.Notify(bw.signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		// wait until someone hits cntl+C or the platform stops us
		<-bw.signalChan
		signal.Stop(bw.signalChan)

		bw.isInterruptedMutex.Lock()
		bw.isInterrupted = true
		bw.isInterruptedMutex.Unlock()
		close(bw.interruptedChan)
	}()
}

func (bw *BackgroundWatcher) ForceSIGTERM() {
	signal.Stop(bw.signalChan)
	close(bw.signalChan)
}

func (bw *BackgroundWatcher) IsInterrupted() bool {
	bw.isInterruptedMutex.Lock()
	defer bw.isInterruptedMutex.Unlock()
	return bw.isInterrupted
}

// Interrupted is closed once a signal has been received.
func (bw *BackgroundWatcher) Interrupted() <-chan struct{} {
	return bw.interruptedChan
}
