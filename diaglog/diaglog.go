package diaglog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// TimeFormat is the timestamp layout of each log line
const TimeFormat = "2006-01-02 15:04:05"

const (
	defaultAttempts   = 3
	defaultRetryDelay = 2 * time.Second
)

// Logger appends diagnostic lines tagged with the variant that produced them
type Logger interface {
	Log(variant, message string)
}

// Format renders one line: <timestamp> [<variant>] - <message>
func Format(t time.Time, variant, message string) string {
	return fmt.Sprintf("%s [%s] - %s\n", t.Format(TimeFormat), variant, message)
}

// Opener opens the log destination for a single append
type Opener func(path string) (io.WriteCloser, error)

// File is an append-only diagnostic log file safe for concurrent use.
// A failed append is retried with a fixed delay and dropped once attempts run out.
type File struct {
	mu       sync.Mutex
	path     string
	attempts int
	delay    time.Duration
	open     Opener
	now      func() time.Time
}

// Option configures a File
type Option func(*File)

// WithRetryDelay sets the fixed delay between attempts
func WithRetryDelay(d time.Duration) Option {
	return func(f *File) { f.delay = d }
}

// WithAttempts sets the total number of attempts per line
func WithAttempts(n int) Option {
	return func(f *File) {
		if n > 0 {
			f.attempts = n
		}
	}
}

// WithOpener replaces how the file is opened
func WithOpener(o Opener) Option {
	return func(f *File) { f.open = o }
}

// WithClock replaces the time source
func WithClock(now func() time.Time) Option {
	return func(f *File) { f.now = now }
}

// NewFile creates a diagnostic log appending to path
func NewFile(path string, opts ...Option) *File {
	f := &File{
		path:     path,
		attempts: defaultAttempts,
		delay:    defaultRetryDelay,
		open:     openAppend,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Log appends a line, serializing concurrent writers
func (f *File) Log(variant, message string) {
	line := Format(f.now(), variant, message)

	f.mu.Lock()
	defer f.mu.Unlock()

	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(f.delay), uint64(f.attempts-1))
	_ = backoff.Retry(func() error { return f.append(line) }, b)
}

func (f *File) append(line string) error {
	w, err := f.open(f.path)
	if err != nil {
		return fmt.Errorf("opening diagnostic log: %w", err)
	}
	if _, err := io.WriteString(w, line); err != nil {
		w.Close()
		return fmt.Errorf("writing diagnostic log: %w", err)
	}
	return w.Close()
}

func openAppend(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// Nop discards every line
type Nop struct{}

func (Nop) Log(string, string) {}

var (
	_ Logger = (*File)(nil)
	_ Logger = Nop{}
)
