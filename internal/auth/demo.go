package auth

import (
	"context"
	"time"
)

const DemoDelay = 800 * time.Millisecond

// DemoAuthenticator signs in a fixed user after a simulated network delay.
type DemoAuthenticator struct {
	Delay time.Duration
}

func NewDemoAuthenticator() DemoAuthenticator {
	return DemoAuthenticator{Delay: DemoDelay}
}

func (d DemoAuthenticator) Authenticate(ctx context.Context) (User, error) {
	if d.Delay > 0 {
		timer := time.NewTimer(d.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return User{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return User{}, err
	}
	return User{
		ID:     "usr_123",
		Name:   "Usuario Demo",
		Avatar: "https://i.pravatar.cc/150?u=usr_12",
	}, nil
}
