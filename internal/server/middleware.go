package server

import (
	"context"
	"crypto/subtle"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
)

// ApiSecretMiddleware returns a Kratos middleware that validates the X-API-Key
// HTTP header. An empty secret disables authentication (pass-through).
// Swagger UI is unaffected because it's registered via HandlePrefix which
// bypasses the Kratos middleware chain.
func ApiSecretMiddleware(secret string) middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req any) (any, error) {
			if secret == "" {
				return handler(ctx, req)
			}

			tr, ok := transport.FromServerContext(ctx)
			if !ok {
				return nil, kerrors.InternalServer("INTERNAL", "no transport in context")
			}

			key := tr.RequestHeader().Get("X-API-Key")
			if key == "" {
				return nil, kerrors.Unauthorized("UNAUTHORIZED", "missing X-API-Key header")
			}

			if subtle.ConstantTimeCompare([]byte(key), []byte(secret)) != 1 {
				return nil, kerrors.Unauthorized("UNAUTHORIZED", "invalid X-API-Key")
			}

			return handler(ctx, req)
		}
	}
}
