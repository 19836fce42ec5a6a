package diaglog_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/marcelsud/webhook-workflow/diaglog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func TestFormat(t *testing.T) {
	line := diaglog.Format(fixedTime, "SlackToWorkflow", "no hook matched")
	assert.Equal(t, "2024-03-09 14:05:07 [SlackToWorkflow] - no hook matched\n", line)
}

func TestFile_Log(t *testing.T) {
	t.Run("success - appends lines to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "webhook.log")
		log := diaglog.NewFile(path, diaglog.WithClock(func() time.Time { return fixedTime }))

		log.Log("GenericWebhook", "first")
		log.Log("GenericWebhook", "second")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t,
			"2024-03-09 14:05:07 [GenericWebhook] - first\n"+
				"2024-03-09 14:05:07 [GenericWebhook] - second\n",
			string(data))
	})

	t.Run("success - retries transient failures", func(t *testing.T) {
		var sb strings.Builder
		calls := 0
		log := diaglog.NewFile("ignored",
			diaglog.WithRetryDelay(0),
			diaglog.WithClock(func() time.Time { return fixedTime }),
			diaglog.WithOpener(func(string) (io.WriteCloser, error) {
				calls++
				if calls < 3 {
					return nil, errors.New("file in use")
				}
				return nopCloser{&sb}, nil
			}),
		)

		log.Log("GenericWebhook", "eventually")

		assert.Equal(t, 3, calls)
		assert.Contains(t, sb.String(), "eventually")
	})

	t.Run("gives up silently after three attempts", func(t *testing.T) {
		calls := 0
		log := diaglog.NewFile("ignored",
			diaglog.WithRetryDelay(0),
			diaglog.WithOpener(func(string) (io.WriteCloser, error) {
				calls++
				return nil, errors.New("file in use")
			}),
		)

		assert.NotPanics(t, func() { log.Log("GenericWebhook", "dropped") })
		assert.Equal(t, 3, calls)
	})

	t.Run("success - concurrent writers produce whole lines", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "webhook.log")
		log := diaglog.NewFile(path)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				log.Log("GenericWebhook", "concurrent line")
			}()
		}
		wg.Wait()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		assert.Len(t, lines, 20)
		for _, l := range lines {
			assert.True(t, strings.HasSuffix(l, "[GenericWebhook] - concurrent line"))
		}
	})
}
