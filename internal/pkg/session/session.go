package session

import (
	"context"
	"net/http"

	"github.com/kaantopcuw/NightFlow/pkg/errors"
	"github.com/kaantopcuw/NightFlow/pkg/status"
)

// Account is the identity the gateway resolved for the request. Authentication
// itself happens upstream; this service only consumes the propagated identity.
type Account struct {
	ID    int64
	Name  string
	Email string
	Role  string
}

type accountKey struct{}

func SetAccountToCtx(ctx context.Context, acc Account) context.Context {
	return context.WithValue(ctx, accountKey{}, acc)
}

func GetAccountFromCtx(ctx context.Context) (Account, error) {
	acc, ok := ctx.Value(accountKey{}).(Account)
	if !ok {
		return Account{}, errors.New(http.StatusUnauthorized, status.UNAUTHORIZED, "account is not found on the request context")
	}

	return acc, nil
}
