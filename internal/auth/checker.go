package auth

import "context"

var _ Checker = (*LoginChecker)(nil)

type Checker interface {
	Session(ctx context.Context, token string) (*Session, error)
}
