package entities

// IdentityKind tells how much the caller's identity can be trusted
type IdentityKind string

const (
	// IdentityVerified identities were confirmed by the identity provider or a signature check
	IdentityVerified IdentityKind = "verified"
	// IdentityClaimed identities were read from an unverified credential payload
	IdentityClaimed IdentityKind = "claimed"
)

// Identity is the resolved caller of a request. It is derived per request and never cached.
type Identity struct {
	ID    string       `json:"id"`
	Email string       `json:"email,omitempty"`
	Kind  IdentityKind `json:"kind"`
}

// IsVerified reports whether the identity was cryptographically or remotely verified
func (i *Identity) IsVerified() bool {
	return i != nil && i.Kind == IdentityVerified
}

// UserID returns a pointer suitable for Transcript.UserID, nil for anonymous callers
func (i *Identity) UserID() *string {
	if i == nil || i.ID == "" {
		return nil
	}
	id := i.ID
	return &id
}
