package loginsession

// LoginSession is what the caller gets back from Start. The nonce and
// code challenge travel with the client to the IdP; the PKCE verifier
// never leaves the cache.
type LoginSession struct {
	SessionID     string `json:"session_id"`
	Nonce         string `json:"nonce"`
	CodeChallenge string `json:"code_challenge"`
}

// sessionRecord is the cache-resident half of a login session.
type sessionRecord struct {
	Nonce        string `json:"nonce"`
	PkceVerifier string `json:"pkce_verifier"`
}
