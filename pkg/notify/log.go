package notify

import (
	"codeberg.org/miketth/inputswitch/pkg/inputswitch"
	"context"
	"go.uber.org/zap"
)

type Log struct {
	log *zap.SugaredLogger
}

func NewLog(log *zap.SugaredLogger) *Log {
	return &Log{log: log}
}

func (l *Log) Show(_ context.Context, n inputswitch.Notification) error {
	l.log.Infow(n.Message, "kind", n.Kind.String(), "app", n.AppID, "source", n.Source.ID)
	return nil
}
