// Package sheets talks to the Google Sheets REST API using a service
// account. Rows are replaced wholesale: clear the range, then write headers
// plus data in one update.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenURL  = "https://oauth2.googleapis.com/token"
	sheetsURL = "https://sheets.googleapis.com/v4/spreadsheets"
	scope     = "https://www.googleapis.com/auth/spreadsheets"
)

type Config struct {
	ServiceAccountEmail string
	// PrivateKeyPEM is the service account key. Literal "\n" sequences are
	// accepted since env files often store the PEM on one line.
	PrivateKeyPEM string
	SpreadsheetID string
}

type Client struct {
	cfg  Config
	http *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func New(cfg Config) *Client {
	cfg.PrivateKeyPEM = strings.ReplaceAll(cfg.PrivateKeyPEM, `\n`, "\n")
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// ReplaceSheet clears the named sheet and writes headers plus rows starting
// at A1.
func (c *Client) ReplaceSheet(ctx context.Context, sheet string, headers []string, rows [][]interface{}) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	clearURL := fmt.Sprintf("%s/%s/values/%s:clear",
		sheetsURL, c.cfg.SpreadsheetID, url.PathEscape(sheet+"!A1:Z10000"))
	if err := c.call(ctx, http.MethodPost, clearURL, token, nil); err != nil {
		return fmt.Errorf("clear sheet %s: %w", sheet, err)
	}

	values := make([][]interface{}, 0, len(rows)+1)
	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	values = append(values, headerRow)
	values = append(values, rows...)

	updateURL := fmt.Sprintf("%s/%s/values/%s?valueInputOption=RAW",
		sheetsURL, c.cfg.SpreadsheetID, url.PathEscape(sheet+"!A1"))
	body := map[string]interface{}{"values": values}
	if err := c.call(ctx, http.MethodPut, updateURL, token, body); err != nil {
		return fmt.Errorf("update sheet %s: %w", sheet, err)
	}

	return nil
}

func (c *Client) call(ctx context.Context, method, rawURL, token string, body interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sheets API returned %d: %s", resp.StatusCode, string(msg))
	}
	return nil
}

// token returns a cached OAuth access token, minting a new one via a signed
// service-account assertion when the cached one is near expiry.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Until(c.tokenExpiry) > time.Minute {
		return c.accessToken, nil
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(c.cfg.PrivateKeyPEM))
	if err != nil {
		return "", fmt.Errorf("parse service account key: %w", err)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   c.cfg.ServiceAccountEmail,
		"scope": scope,
		"aud":   tokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign service account assertion: %w", err)
	}

	form := url.Values{}
	form.Set("grant_type", "urn:ietf:params:oauth:grant-type:jwt-bearer")
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("token exchange returned %d: %s", resp.StatusCode, string(msg))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", err
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("token exchange returned empty access token")
	}

	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = now.Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	return c.accessToken, nil
}
