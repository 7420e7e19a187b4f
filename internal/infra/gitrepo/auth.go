package gitrepo

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

const (
	envGitUser    = "DOCFORGE_GIT_USERNAME"
	envGitToken   = "DOCFORGE_GIT_TOKEN"
	envGHToken    = "GITHUB_TOKEN"
	envGHCLIToken = "GH_TOKEN"
	defaultUser   = "x-access-token"
)

// authForURL returns token auth for HTTP(S) remotes when a token is set in
// the environment. Other protocols use go-git defaults.
func authForURL(rawURL string) (transport.AuthMethod, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, nil
	}

	ep, err := transport.NewEndpoint(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse remote URL: %w", err)
	}
	if ep.Protocol != "http" && ep.Protocol != "https" {
		return nil, nil
	}

	user, token := credentialsFromEnv()
	if token == "" {
		return nil, nil
	}
	if ep.User != "" && strings.TrimSpace(os.Getenv(envGitUser)) == "" {
		user = ep.User
	}
	return &http.BasicAuth{Username: user, Password: token}, nil
}

func credentialsFromEnv() (string, string) {
	token := ""
	for _, key := range []string{envGitToken, envGHToken, envGHCLIToken} {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			token = value
			break
		}
	}
	user := strings.TrimSpace(os.Getenv(envGitUser))
	if user == "" {
		user = defaultUser
	}
	return user, token
}
