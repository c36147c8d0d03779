package aprsis

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Client delivers packets to an APRS-IS server. Every logical send runs a
// full connect -> login -> write -> close cycle; a half-broken connection
// is never reused across attempts.

// DialFunc opens the transport for one attempt. Injectable for tests.
type DialFunc func(ctx context.Context, addr string) (net.Conn, error)

// SleepFunc waits for d or until ctx is done. Injectable for tests.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Options configures a Client.
type Options struct {
	Host     string
	Port     int
	User     string
	Passcode string
	Callsign string

	// Software identifier sent in the login line.
	Software string
	Version  string

	// MaxAttempts full cycles per logical send, RetryDelay between them.
	MaxAttempts int
	RetryDelay  time.Duration

	// Timeout bounds each attempt: dial timeout and connection deadline.
	Timeout time.Duration

	// MinInterval spaces logical sends (APRS-IS politeness). Zero disables
	// pacing.
	MinInterval time.Duration

	// SettleDelay holds the connection open after the write so the server
	// ingests the packet before close.
	SettleDelay time.Duration
}

// RetriesExhaustedError reports a logical send that failed every attempt.
type RetriesExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("send failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RetriesExhaustedError) Unwrap() error { return e.Last }

type Client struct {
	opts    Options
	logger  *slog.Logger
	limiter *rate.Limiter
	dial    DialFunc
	sleep   SleepFunc
}

// New creates a Client. Zero option fields fall back to the defaults:
// 3 attempts, 5s retry delay, 30s timeout.
func New(opts Options, logger *slog.Logger) *Client {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 5 * time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.SettleDelay < 0 {
		opts.SettleDelay = 0
	}

	limit := rate.Inf
	if opts.MinInterval > 0 {
		limit = rate.Every(opts.MinInterval)
	}

	return &Client{
		opts:    opts,
		logger:  logger,
		limiter: rate.NewLimiter(limit, 1),
		dial: func(ctx context.Context, addr string) (net.Conn, error) {
			d := net.Dialer{Timeout: opts.Timeout}
			return d.DialContext(ctx, "tcp", addr)
		},
		sleep: func(ctx context.Context, d time.Duration) error {
			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
				return nil
			}
		},
	}
}

// Send delivers one packet body, retrying with a fresh connection on each
// failure. Exhausting all attempts returns a *RetriesExhaustedError; the
// caller decides whether later packets are still worth trying.
func (c *Client) Send(ctx context.Context, body string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("send pacing: %w", err)
	}

	addr := net.JoinHostPort(c.opts.Host, strconv.Itoa(c.opts.Port))

	var last error
	for attempt := 1; attempt <= c.opts.MaxAttempts; attempt++ {
		c.logger.Info("sending packet",
			"attempt", attempt,
			"max_attempts", c.opts.MaxAttempts,
			"server", addr,
			"packet", body,
		)

		err := c.sendOnce(ctx, addr, body)
		if err == nil {
			c.logger.Info("packet sent", "attempt", attempt, "server", addr)
			return nil
		}
		last = err
		c.logger.Warn("send attempt failed", "attempt", attempt, "server", addr, "error", err)

		if attempt < c.opts.MaxAttempts {
			if err := c.sleep(ctx, c.opts.RetryDelay); err != nil {
				return fmt.Errorf("retry wait: %w", err)
			}
		}
	}

	err := &RetriesExhaustedError{Attempts: c.opts.MaxAttempts, Last: last}
	c.logger.Error("packet not delivered", "server", addr, "error", err)
	return err
}

// sendOnce runs a single connect -> login -> write -> close cycle. The
// login is fire-and-forget per APRS-IS convention: no server line is
// consumed, but any write error (including a reset during login) fails
// the attempt.
func (c *Client) sendOnce(ctx context.Context, addr, body string) (err error) {
	conn, err := c.dial(ctx, addr)
	if err != nil {
		return fmt.Errorf("connect %s: %w", addr, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.opts.Timeout)); err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}

	login := fmt.Sprintf("user %s pass %s vers %s %s\r\n",
		c.opts.User, c.opts.Passcode, c.opts.Software, c.opts.Version)
	if _, err := conn.Write([]byte(login)); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	frame := fmt.Sprintf("%s>APRS,TCPIP*:%s\r\n", c.opts.Callsign, body)
	if _, err := conn.Write([]byte(frame)); err != nil {
		return fmt.Errorf("write packet: %w", err)
	}

	// Let the server take the packet before the connection goes away.
	if c.opts.SettleDelay > 0 {
		if err := c.sleep(ctx, c.opts.SettleDelay); err != nil {
			return err
		}
	}

	return nil
}
