package threadpool

import "sync"

// recordingLogger captures every call made to it, for assertions in tests
// that need to know a particular level fired without caring about the
// pool's default stdlib logging.
type recordingLogger struct {
	mu    sync.Mutex
	warns []string
	errs  []string
	excs  []string
}

func (l *recordingLogger) Debug(msg string, data ...any) {}

func (l *recordingLogger) Warn(msg string, data ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *recordingLogger) Error(msg string, err error, data ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, msg)
}

func (l *recordingLogger) Exception(msg string, err error, data ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.excs = append(l.excs, msg)
}

func (l *recordingLogger) warnCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.warns)
}

func (l *recordingLogger) excCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.excs)
}
