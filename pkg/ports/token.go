package ports

import "context"

// TokenSource supplies an authorization token before each call. An empty
// token means "no header". Errors are not specially handled: they route the
// invocation to the general failure path.
type TokenSource func(ctx context.Context) (string, error)

// StaticToken returns a TokenSource that always yields the given token.
func StaticToken(token string) TokenSource {
	return func(context.Context) (string, error) {
		return token, nil
	}
}
