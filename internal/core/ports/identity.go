package ports

import (
	"context"

	"github.com/ewilliams-labs/aestheticify/internal/core/domain"
)

// IdentityProvider reports the identity bound to the request, if any.
type IdentityProvider interface {
	CurrentIdentity(ctx context.Context) (domain.Identity, bool)
}
