package git

import (
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// TokenAuth returns HTTP basic auth carrying an access token, the form GitHub
// accepts for pushes over https. An empty token yields no authentication.
func TokenAuth(username, token string) transport.AuthMethod {
	if token == "" {
		return nil
	}
	if username == "" {
		username = "token"
	}
	return &http.BasicAuth{Username: username, Password: token}
}
