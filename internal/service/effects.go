package service

import (
	"context"
	"sync"
	"time"

	"github.com/Skotchmaster/halkabite/internal/events"
	"github.com/Skotchmaster/halkabite/internal/notify"
	"github.com/Skotchmaster/halkabite/pkg/logging"
)

// Effects runs post-commit side effects. They never fail the request that
// triggered them and keep running after the request context is cancelled.
type Effects struct {
	Events  events.Publisher
	Mailer  notify.Mailer
	Timeout time.Duration

	wg sync.WaitGroup
}

func (e *Effects) timeout() time.Duration {
	if e.Timeout <= 0 {
		return 5 * time.Second
	}
	return e.Timeout
}

func (e *Effects) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	l := logging.FromContext(ctx)
	detached := context.WithoutCancel(ctx)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		ctx, cancel := context.WithTimeout(detached, e.timeout())
		defer cancel()

		if err := fn(ctx); err != nil {
			l.Error(name+"_failed", "error", err)
		}
	}()
}

func (e *Effects) Publish(ctx context.Context, topic, key string, ev events.Event) {
	if e == nil || e.Events == nil {
		return
	}
	e.Go(ctx, "publish_"+ev.Type, func(ctx context.Context) error {
		return e.Events.PublishEvent(ctx, topic, key, ev)
	})
}

func (e *Effects) Mail(ctx context.Context, msg notify.Message) {
	if e == nil || e.Mailer == nil {
		return
	}
	e.Go(ctx, "send_email", func(ctx context.Context) error {
		return e.Mailer.Send(ctx, msg)
	})
}

// Wait blocks until every started side effect has finished.
func (e *Effects) Wait() {
	if e == nil {
		return
	}
	e.wg.Wait()
}
