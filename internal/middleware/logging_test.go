package middleware

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	tele "gopkg.in/telebot.v3"
)

// fakeContext implements the parts of tele.Context the middleware touches
type fakeContext struct {
	tele.Context
	chat     *tele.Chat
	callback *tele.Callback
	sent     []interface{}
}

func (f *fakeContext) Chat() *tele.Chat         { return f.chat }
func (f *fakeContext) Sender() *tele.User       { return nil }
func (f *fakeContext) Callback() *tele.Callback { return f.callback }
func (f *fakeContext) Message() *tele.Message   { return &tele.Message{} }

func (f *fakeContext) Send(what interface{}, opts ...interface{}) error {
	f.sent = append(f.sent, what)
	return nil
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	mw := Logger(zap.New(core))

	t.Run("success logs at debug", func(t *testing.T) {
		c := &fakeContext{chat: &tele.Chat{ID: 42}}
		err := mw(func(tele.Context) error { return nil })(c)

		require.NoError(t, err)
		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
		assert.Equal(t, int64(42), entries[0].ContextMap()["chat_id"])
		assert.Equal(t, "message", entries[0].ContextMap()["kind"])
	})

	t.Run("failure is logged and returned", func(t *testing.T) {
		c := &fakeContext{chat: &tele.Chat{ID: 7}, callback: &tele.Callback{}}
		boom := errors.New("boom")
		err := mw(func(tele.Context) error { return boom })(c)

		assert.ErrorIs(t, err, boom)
		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Equal(t, "callback", entries[0].ContextMap()["kind"])
	})
}

func TestRecover(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	mw := Recover(zap.New(core), "oops")

	t.Run("panic becomes error", func(t *testing.T) {
		c := &fakeContext{chat: &tele.Chat{ID: 1}}
		err := mw(func(tele.Context) error { panic("nil map") })(c)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "nil map")
		assert.Equal(t, []interface{}{"oops"}, c.sent)
		assert.Equal(t, 1, logs.FilterMessage("Handler panicked").Len())
	})

	t.Run("normal flow untouched", func(t *testing.T) {
		c := &fakeContext{chat: &tele.Chat{ID: 1}}
		err := mw(func(tele.Context) error { return nil })(c)

		assert.NoError(t, err)
		assert.Empty(t, c.sent)
	})
}
