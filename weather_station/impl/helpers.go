package impl

import (
	"context"
	"fmt"
	"time"
)

type timerDelay struct{}

func (timerDelay) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func formatTemperature(t *int) string {
	if t == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d°F", *t)
}
