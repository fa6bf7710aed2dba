package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// ErrNoToken is returned when the token file is missing and no interactive
// prompt was allowed.
var ErrNoToken = errors.New("gmail token not found")

// NewGmailService builds a send-only Gmail client from the OAuth client
// secret at credentialsFile and the cached user token at tokenFile. When the
// token is missing and prompt is non-nil the user is asked to authorize in a
// browser and paste the code, and the token is cached for the next start.
func NewGmailService(ctx context.Context, credentialsFile, tokenFile string, prompt io.Reader) (*gmail.Service, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read client secret file: %w", err)
	}
	config, err := google.ConfigFromJSON(b, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("parse client secret file: %w", err)
	}
	client, err := getClient(ctx, config, tokenFile, prompt)
	if err != nil {
		return nil, err
	}
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return svc, nil
}

func getClient(ctx context.Context, config *oauth2.Config, tokenFile string, prompt io.Reader) (*http.Client, error) {
	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		if prompt == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoToken, tokenFile)
		}
		tok, err = getTokenFromWeb(ctx, config, prompt)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tokenFile, tok); err != nil {
			return nil, err
		}
	}
	return config.Client(ctx, tok), nil
}

func getTokenFromWeb(ctx context.Context, config *oauth2.Config, prompt io.Reader) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Open this link to authorize Gmail access:\n%v\n", authURL)
	fmt.Printf("Paste the authorization code here: ")

	var authCode string
	if _, err := fmt.Fscan(prompt, &authCode); err != nil {
		return nil, fmt.Errorf("read authorization code: %w", err)
	}
	tok, err := config.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return tok, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("cache oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}
