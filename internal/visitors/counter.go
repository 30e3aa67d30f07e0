package visitors

import (
	"context"
	"strconv"
)

const (
	countKey        = "dh2ocol_visitor_count"
	sessionVisitKey = "dh2ocol_session_visit"
)

// Counter grows a durable visit count exactly once per session: the first
// Init of a session increments, later Inits only read.
type Counter struct {
	durable Store
	session Store
}

func NewCounter(durable, session Store) *Counter {
	return &Counter{durable: durable, session: session}
}

// Init returns the visit count to display, incrementing it when this
// session has not been counted yet. Corrupt stored values restart at zero.
func (c *Counter) Init(ctx context.Context) (int64, error) {
	count, err := c.Count(ctx)
	if err != nil {
		return 0, err
	}

	if _, err := c.session.Get(ctx, sessionVisitKey); err == nil {
		return count, nil
	} else if err != ErrNotFound {
		return 0, err
	}

	count++
	if err := c.durable.Set(ctx, countKey, strconv.FormatInt(count, 10)); err != nil {
		return 0, err
	}
	if err := c.session.Set(ctx, sessionVisitKey, "1"); err != nil {
		return 0, err
	}
	return count, nil
}

// Count reads the durable total without touching the session mark.
func (c *Counter) Count(ctx context.Context) (int64, error) {
	raw, err := c.durable.Get(ctx, countKey)
	if err == ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, nil
	}
	return n, nil
}
