package chat

import (
	"log/slog"
	"testing"
	"time"

	"github.com/organconnect/organconnect/backend/internal/models"
	"github.com/stretchr/testify/require"
)

const testDelay = 20 * time.Millisecond

func newTestResponder() *Responder {
	return NewResponder(Config{Delay: testDelay}, slog.New(slog.DiscardHandler))
}

func TestSend_ImmediateUserEntryThenOneReply(t *testing.T) {
	r := newTestResponder()
	defer r.Close()

	require.True(t, r.Send("hello"))

	tr := r.Transcript()
	require.Len(t, tr, 2)
	require.Equal(t, models.ChatRoleAssistant, tr[0].Role)
	require.Equal(t, DefaultGreeting, tr[0].Content)
	require.Equal(t, models.ChatRoleUser, tr[1].Role)
	require.Equal(t, "hello", tr[1].Content)

	require.Eventually(t, func() bool { return len(r.Transcript()) == 3 }, time.Second, 5*time.Millisecond)
	tr = r.Transcript()
	require.Equal(t, models.ChatRoleAssistant, tr[2].Role)
	require.Equal(t, DefaultReply, tr[2].Content)

	time.Sleep(3 * testDelay)
	require.Len(t, r.Transcript(), 3)
}

func TestSend_TwoQuickSendsYieldTwoReplies(t *testing.T) {
	r := newTestResponder()
	defer r.Close()

	require.True(t, r.Send("first"))
	require.True(t, r.Send("second"))
	require.Equal(t, 2, r.Pending())

	require.Eventually(t, func() bool { return r.Pending() == 0 }, time.Second, 5*time.Millisecond)

	tr := r.Transcript()
	require.Len(t, tr, 5)
	require.Equal(t, "first", tr[1].Content)
	require.Equal(t, "second", tr[2].Content)
	require.Equal(t, models.ChatRoleAssistant, tr[3].Role)
	require.Equal(t, models.ChatRoleAssistant, tr[4].Role)
}

func TestSend_BlankInputIsIgnored(t *testing.T) {
	r := newTestResponder()
	defer r.Close()

	require.False(t, r.Send(""))
	require.False(t, r.Send("   \t\n"))
	require.Len(t, r.Transcript(), 1)
	require.Zero(t, r.Pending())
}

func TestClose_VoidsPendingReplies(t *testing.T) {
	r := newTestResponder()
	require.True(t, r.Send("hello"))
	r.Close()

	time.Sleep(3 * testDelay)
	require.Len(t, r.Transcript(), 2)
	require.False(t, r.Send("again"))
}

func TestDeliver_OutOfOrderTimerKeepsOrder(t *testing.T) {
	r := NewResponder(Config{Delay: time.Hour}, slog.New(slog.DiscardHandler))
	defer r.Close()
	r.Send("a")
	r.Send("b")

	r.deliver(2)
	r.deliver(1)

	tr := r.Transcript()
	require.Len(t, tr, 5)
	require.Zero(t, r.Pending())
	require.Empty(t, r.timers)
}

func TestDeliver_ReleasesFiredTimers(t *testing.T) {
	r := newTestResponder()
	defer r.Close()
	for _, text := range []string{"one", "two", "three"} {
		require.True(t, r.Send(text))
	}

	require.Eventually(t, func() bool { return r.Pending() == 0 }, time.Second, 5*time.Millisecond)
	r.mu.Lock()
	defer r.mu.Unlock()
	require.Empty(t, r.timers)
}
