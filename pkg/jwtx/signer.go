package jwtx

// Signer is our interface for anything that can sign token claims.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// Verifier validates a token string and gives back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}
