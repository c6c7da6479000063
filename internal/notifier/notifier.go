package notifier

import (
	"context"
)

const (
	EventUpload   = "upload"
	EventActivate = "activate"
	EventPrune    = "prune"
	EventError    = "error"
)

type Notifier interface {
	NotifyUpload(ctx context.Context, bucket, key string) error
	NotifyActivate(ctx context.Context, bucket, key, mode string) error
	NotifyPrune(ctx context.Context, bucket string, retained, deleted int) error
	NotifyError(ctx context.Context, bucket, op string, err error) error
}

// Nop discards every notification.
type Nop struct{}

func (Nop) NotifyUpload(context.Context, string, string) error { return nil }
func (Nop) NotifyActivate(context.Context, string, string, string) error { return nil }
func (Nop) NotifyPrune(context.Context, string, int, int) error { return nil }
func (Nop) NotifyError(context.Context, string, string, error) error { return nil }
