package skillnet

import (
	serrors "github.com/skillnet-dev/skillnet-go/errors"
	"github.com/skillnet-dev/skillnet-go/session"
)

// ErrNotLoggedIn is re-exported so callers can test it without importing the
// session package.
var ErrNotLoggedIn = session.ErrNotLoggedIn

// Error taxonomy re-exports (see the errors package for semantics).
type (
	NetworkError       = serrors.NetworkError
	HTTPError          = serrors.HTTPError
	AuthError          = serrors.AuthError
	ProfileUpdateError = serrors.ProfileUpdateError
)
