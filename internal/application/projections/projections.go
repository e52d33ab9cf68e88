// Package projections assembles read models for the dashboards. Each
// projection is a pure function over narrow backend-gateway
// interfaces, so handlers stay thin and tests run against mocks.
package projections

import (
	"errors"

	"academy/internal/adapters/backend"
)

// sectionFail converts a per-section fetch error into an inline
// message. Session expiry is never swallowed; it propagates so the
// caller routes to login.
func sectionFail(err error) (string, error) {
	if errors.Is(err, backend.ErrUnauthenticated) {
		return "", err
	}
	return backend.FormatUserError(err), nil
}
