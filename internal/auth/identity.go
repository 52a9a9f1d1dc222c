package auth

// Scope limits what a token may do.
type Scope string

const (
	ScopeRead  Scope = "read"
	ScopeWrite Scope = "write"
)

func (s Scope) Valid() bool {
	return s == ScopeRead || s == ScopeWrite
}

// Identity is the caller a validated token describes.
type Identity struct {
	Subject string
	Scope   Scope
}

// CanWrite reports whether the identity may mutate catalogs.
func (i Identity) CanWrite() bool {
	return i.Scope == ScopeWrite
}
