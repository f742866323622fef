package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dreschagin/call-analytics-dashboard/internal/domain/service"
	"github.com/dreschagin/call-analytics-dashboard/pkg/logger"
)

type readResult struct {
	streams []redis.XStream
	err     error
}

// fakeStreamReader replays a scripted sequence of Ping and XRead results.
// When the XRead script is exhausted it cancels the run context so tests
// terminate deterministically.
type fakeStreamReader struct {
	pingErrs  []error
	pingCalls int

	reads     []readResult
	readCalls []*redis.XReadArgs

	cancel context.CancelFunc
}

func (f *fakeStreamReader) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	var err error
	if f.pingCalls < len(f.pingErrs) {
		err = f.pingErrs[f.pingCalls]
	}
	f.pingCalls++
	if err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal("PONG")
	}
	return cmd
}

func (f *fakeStreamReader) XRead(ctx context.Context, a *redis.XReadArgs) *redis.XStreamSliceCmd {
	cmd := redis.NewXStreamSliceCmd(ctx)
	i := len(f.readCalls)
	f.readCalls = append(f.readCalls, a)

	if i >= len(f.reads) {
		if f.cancel != nil {
			f.cancel()
		}
		cmd.SetErr(redis.Nil)
		return cmd
	}

	if f.reads[i].err != nil {
		cmd.SetErr(f.reads[i].err)
	} else {
		cmd.SetVal(f.reads[i].streams)
	}
	return cmd
}

func testConfig() Config {
	return Config{
		ConversationsStream: "voice:conversations",
		ErrorsStream:        "voice:errors",
		ReadBlock:           time.Millisecond,
		ReadCount:           10,
		BackoffMin:          time.Millisecond,
		BackoffMax:          2 * time.Millisecond,
	}
}

func TestConsumeForwardsEntriesAndAdvancesCursors(t *testing.T) {
	agg := service.NewMetricsAggregator(time.Now())
	fake := &fakeStreamReader{
		reads: []readResult{{
			streams: []redis.XStream{
				{
					Stream: "voice:conversations",
					Messages: []redis.XMessage{
						{ID: "1000-0", Values: map[string]interface{}{"event": "call_started", "conversation_id": "conv-1"}},
						{ID: "1001-0", Values: map[string]interface{}{"event": "call_started", "conversation_id": "conv-2"}},
						{ID: "1002-0", Values: map[string]interface{}{"event": "call_ended", "conversation_id": "conv-1"}},
					},
				},
				{
					Stream: "voice:errors",
					Messages: []redis.XMessage{
						{ID: "1003-0", Values: map[string]interface{}{"error_type": "API_TIMEOUT", "message": "m", "severity": "high"}},
					},
				},
			},
		}},
	}

	c := newConsumer(fake, agg, testConfig(), logger.New("error"))

	if state := c.consume(context.Background()); state != stateConnected {
		t.Fatalf("consume() state = %v, want connected", state)
	}

	if got := agg.ActiveCalls(); got != 1 {
		t.Fatalf("ActiveCalls() = %d, want 1", got)
	}
	if got := agg.ErrorCount(); got != 1 {
		t.Fatalf("ErrorCount() = %d, want 1", got)
	}

	if got := c.cursors["voice:conversations"]; got != "1002-0" {
		t.Fatalf("conversations cursor = %q, want 1002-0", got)
	}
	if got := c.cursors["voice:errors"]; got != "1003-0" {
		t.Fatalf("errors cursor = %q, want 1003-0", got)
	}

	if !c.Connected() {
		t.Fatal("Connected() = false after successful read")
	}
}

func TestConsumeSkipsMalformedEntriesButAdvancesCursor(t *testing.T) {
	agg := service.NewMetricsAggregator(time.Now())
	fake := &fakeStreamReader{
		reads: []readResult{{
			streams: []redis.XStream{{
				Stream: "voice:errors",
				Messages: []redis.XMessage{
					{ID: "2000-0", Values: map[string]interface{}{"error_type": "E"}}, // нет message/severity
					{ID: "2001-0", Values: map[string]interface{}{"error_type": "E", "message": "m", "severity": "low"}},
				},
			}},
		}},
	}

	c := newConsumer(fake, agg, testConfig(), logger.New("error"))
	c.consume(context.Background())

	if got := agg.ErrorCount(); got != 1 {
		t.Fatalf("ErrorCount() = %d, want only the valid entry", got)
	}
	// Курсор прошел и мимо битой записи: она не перечитывается
	if got := c.cursors["voice:errors"]; got != "2001-0" {
		t.Fatalf("errors cursor = %q, want 2001-0", got)
	}
}

func TestConsumeBlockTimeoutKeepsConnection(t *testing.T) {
	agg := service.NewMetricsAggregator(time.Now())
	fake := &fakeStreamReader{reads: []readResult{{err: redis.Nil}}}

	c := newConsumer(fake, agg, testConfig(), logger.New("error"))
	c.connected.Store(true)

	if state := c.consume(context.Background()); state != stateConnected {
		t.Fatalf("consume() on block timeout = %v, want connected", state)
	}
	if !c.Connected() {
		t.Fatal("Connected() = false after block timeout")
	}
}

func TestConsumeTransportErrorTriggersBackoff(t *testing.T) {
	agg := service.NewMetricsAggregator(time.Now())
	fake := &fakeStreamReader{reads: []readResult{{err: errors.New("connection refused")}}}

	c := newConsumer(fake, agg, testConfig(), logger.New("error"))
	c.connected.Store(true)

	if state := c.consume(context.Background()); state != stateBackoff {
		t.Fatalf("consume() on transport error = %v, want backoff", state)
	}
	if c.Connected() {
		t.Fatal("Connected() = true after transport error")
	}
}

func TestConnectFailureTriggersBackoff(t *testing.T) {
	fake := &fakeStreamReader{pingErrs: []error{errors.New("dial timeout")}}
	c := newConsumer(fake, service.NewMetricsAggregator(time.Now()), testConfig(), logger.New("error"))

	if state := c.connect(context.Background()); state != stateBackoff {
		t.Fatalf("connect() = %v, want backoff", state)
	}
	if c.Connected() {
		t.Fatal("Connected() = true after failed ping")
	}
}

func TestRunRecoversAfterFailedPing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	agg := service.NewMetricsAggregator(time.Now())
	fake := &fakeStreamReader{
		pingErrs: []error{errors.New("dial timeout"), nil},
		reads: []readResult{{
			streams: []redis.XStream{{
				Stream: "voice:conversations",
				Messages: []redis.XMessage{
					{ID: "3000-0", Values: map[string]interface{}{"event": "call_started", "conversation_id": "conv-9"}},
				},
			}},
		}},
		cancel: cancel,
	}

	c := newConsumer(fake, agg, testConfig(), logger.New("error"))
	c.Run(ctx)

	if fake.pingCalls < 2 {
		t.Fatalf("pingCalls = %d, want reconnect after failure", fake.pingCalls)
	}
	if got := agg.ActiveCalls(); got != 1 {
		t.Fatalf("ActiveCalls() = %d, want 1 after recovery", got)
	}
	// После остановки флаг соединения сбрасывается
	if c.Connected() {
		t.Fatal("Connected() = true after Run returned")
	}
}

func TestBackoffDelayIsCappedWithJitter(t *testing.T) {
	c := newConsumer(&fakeStreamReader{}, service.NewMetricsAggregator(time.Now()), Config{
		ConversationsStream: "a",
		ErrorsStream:        "b",
		BackoffMin:          time.Second,
		BackoffMax:          4 * time.Second,
	}, logger.New("error"))

	c.attempt = 10
	delay := c.backoffDelay()

	// Максимум плюс джиттер до 25%
	if delay < 4*time.Second || delay > 5*time.Second {
		t.Fatalf("delay = %v, want within [4s, 5s]", delay)
	}
}
