package session

import "golang.org/x/oauth2"

// storeSource reads the store on every call; a logout or re-login
// applies to the next request.
type storeSource struct {
	store Store
}

// TokenSource adapts s to an oauth2.TokenSource.
// Do not wrap the result in oauth2.ReuseTokenSource.
func TokenSource(s Store) oauth2.TokenSource {
	return storeSource{store: s}
}

func (s storeSource) Token() (*oauth2.Token, error) {
	tok, err := s.store.Token()
	if err != nil {
		return nil, err
	}
	if tok.TokenType == "" {
		tok.TokenType = "Bearer"
	}
	return tok, nil
}
