package service

// Authorizer decides whether a caller identity holds the bridge admin role.
type Authorizer interface {
	IsAdmin(caller string) bool
}
