package middleware

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Logger logs every update with its chat, kind and handling time
func Logger(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			err := next(c)

			fields := []zap.Field{
				zap.Int64("chat_id", chatID(c)),
				zap.String("kind", kind(c)),
				zap.Duration("took", time.Since(start)),
			}
			if err != nil {
				logger.Error("Update handling failed", append(fields, zap.Error(err))...)
				return err
			}
			logger.Debug("Update handled", fields...)
			return nil
		}
	}
}

// Recover turns a handler panic into an error and a generic reply
func Recover(logger *zap.Logger, reply string) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Handler panicked",
						zap.Int64("chat_id", chatID(c)),
						zap.Any("panic", r),
						zap.Stack("stack"),
					)
					if sendErr := c.Send(reply); sendErr != nil {
						logger.Warn("Failed to send panic reply", zap.Error(sendErr))
					}
					err = fmt.Errorf("handler panic: %v", r)
				}
			}()
			return next(c)
		}
	}
}

func chatID(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	if sender := c.Sender(); sender != nil {
		return sender.ID
	}
	return 0
}

func kind(c tele.Context) string {
	switch {
	case c.Callback() != nil:
		return "callback"
	case c.Message() != nil:
		return "message"
	}
	return "other"
}
