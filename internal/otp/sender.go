package otp

import (
	"context"
	"log/slog"
)

// Sender delivers a code to the phone behind a mobile number. Implementations
// talk to an SMS backend; LogSender only records the delivery.
type Sender interface {
	Send(ctx context.Context, mobile, code string) error
}

type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, mobile, _ string) error {
	s.log.Info("OTP dispatched", "mobile", mobile)
	return nil
}
