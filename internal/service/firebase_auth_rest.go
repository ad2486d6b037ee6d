package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	identityToolkitURL = "https://identitytoolkit.googleapis.com/v1"
	secureTokenURL     = "https://securetoken.googleapis.com/v1"
)

// FirebaseAuthRestClient signs dashboard users in against the Identity
// Toolkit REST API and exchanges refresh tokens for new ID tokens.
type FirebaseAuthRestClient struct {
	apiKey         string
	projectId      string
	identityURL    string
	secureTokenURL string
	httpClient     *http.Client
}

func NewFirebaseAuthRestClient(apiKey string, projectId string) *FirebaseAuthRestClient {
	return &FirebaseAuthRestClient{
		apiKey:         apiKey,
		projectId:      projectId,
		identityURL:    identityToolkitURL,
		secureTokenURL: secureTokenURL,
		httpClient: &http.Client{
			Timeout: time.Second * 30,
		},
	}
}

// WithBaseURLs points the client at other endpoints, e.g. the auth emulator.
func (f *FirebaseAuthRestClient) WithBaseURLs(identityURL, secureTokenURL string) *FirebaseAuthRestClient {
	f.identityURL = strings.TrimRight(identityURL, "/")
	f.secureTokenURL = strings.TrimRight(secureTokenURL, "/")
	return f
}

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("Google Identity Toolkit returned error: %v %v", e.Message, e.Code)
}

type IdTokenResponse struct {
	IdToken      string         `json:"idToken"`
	Email        string         `json:"email"`
	RefreshToken string         `json:"refreshToken"`
	ExpiresIn    string         `json:"expiresIn"`
	LocalId      string         `json:"localId"`
	Registered   bool           `json:"registered"`
	Error        *ErrorResponse `json:"error"`
}

func (f *FirebaseAuthRestClient) SignInWithEmailAndPassword(ctx context.Context, email string, password string) (IdTokenResponse, error) {
	body := map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}
	bodyJson, err := json.Marshal(body)
	if err != nil {
		return IdTokenResponse{}, err
	}
	endpoint := f.identityURL + "/accounts:signInWithPassword?key=" + url.QueryEscape(f.apiKey)
	response := IdTokenResponse{}
	if err := f.post(ctx, endpoint, "application/json", bytes.NewReader(bodyJson), &response); err != nil {
		return IdTokenResponse{}, err
	}
	if response.Error != nil {
		return response, response.Error
	}
	return response, nil
}

type RefreshTokenResponse struct {
	IdToken      string         `json:"id_token"`
	RefreshToken string         `json:"refresh_token"`
	ExpiresIn    string         `json:"expires_in"`
	UserId       string         `json:"user_id"`
	Error        *ErrorResponse `json:"error"`
}

// RefreshIdToken exchanges a refresh token for a fresh ID token.
func (f *FirebaseAuthRestClient) RefreshIdToken(ctx context.Context, refreshToken string) (RefreshTokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	endpoint := f.secureTokenURL + "/token?key=" + url.QueryEscape(f.apiKey)
	response := RefreshTokenResponse{}
	if err := f.post(ctx, endpoint, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()), &response); err != nil {
		return RefreshTokenResponse{}, err
	}
	if response.Error != nil {
		return response, response.Error
	}
	return response, nil
}

func (f *FirebaseAuthRestClient) post(ctx context.Context, endpoint string, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()
	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}
	if err := json.Unmarshal(respBytes, out); err != nil {
		return fmt.Errorf("error decoding response (status %v): %w", resp.StatusCode, err)
	}
	return nil
}
