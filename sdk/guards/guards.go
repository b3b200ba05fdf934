package guards

// StateReader is the read-only slice of session state the guards consume.
// session.Manager satisfies it.
type StateReader interface {
	IsAuthenticated() bool
}

// Decision is the outcome of evaluating a guard against current session
// state: either the navigation proceeds, or it is denied with a redirect
// target.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Guard gates one route transition. Guards are pure functions of the latest
// session state, read synchronously; they never make a round trip and have no
// side effects beyond the redirect they request.
type Guard func() Decision

// NewAuthGuard returns a Guard admitting only authenticated sessions.
// Anonymous navigation is redirected to the sign-in route.
func NewAuthGuard(session StateReader, signInRoute string) Guard {
	return func() Decision {
		if session.IsAuthenticated() {
			return Decision{Allowed: true}
		}
		return Decision{
			RedirectTo: signInRoute,
		}
	}
}

// NewGuestGuard returns the inverse Guard, admitting only anonymous sessions.
// Authenticated navigation is redirected to the landing route.
func NewGuestGuard(session StateReader, landingRoute string) Guard {
	return func() Decision {
		if !session.IsAuthenticated() {
			return Decision{Allowed: true}
		}
		return Decision{
			RedirectTo: landingRoute,
		}
	}
}
