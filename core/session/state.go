package session

// State is the coarse authentication state observed by request consumers.
//
// Transitions:
//
//	Unauthenticated → AuthenticatedPending    credential verification succeeded
//	AuthenticatedPending → AuthenticatedStable    token materialized
//	AuthenticatedStable → AuthenticatedRefreshing    update-age boundary reached
//	AuthenticatedRefreshing → AuthenticatedStable    expiry extended, same IDs
//	any → Unauthenticated    logout, absolute-age expiry, terminal decode failure
type State uint8

const (
	Unauthenticated State = iota
	AuthenticatedPending
	AuthenticatedStable
	AuthenticatedRefreshing
)

// Authenticated reports whether the state carries a usable session.
func (s State) Authenticated() bool {
	return s != Unauthenticated
}

func (s State) String() string {
	switch s {
	case AuthenticatedPending:
		return "authenticated:pending"
	case AuthenticatedStable:
		return "authenticated:stable"
	case AuthenticatedRefreshing:
		return "authenticated:refreshing"
	default:
		return "unauthenticated"
	}
}
