package supabase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/url"

	"portfel/internal/log"
)

const usersPath = "/rest/v1/users"

// HashPassword returns the SHA-256 hex digest stored in the users table.
// The backend compares digests, never plaintext.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// CheckLogin matches login and password digest against the users table and
// returns the matched user id. A successful response with no matching row
// is ErrInvalidCredentials, not a classified failure.
func (c *Client) CheckLogin(ctx context.Context, login, passwordHash string) (int, error) {
	query := "login=eq." + url.QueryEscape(login) + "&password=eq." + url.QueryEscape(passwordHash)

	resp, err := c.do(ctx, log.OpLogin, http.MethodGet, usersPath+"?"+query, nil, "")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var users []struct {
		ID int `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return 0, &Error{Op: log.OpLogin, Kind: KindDecode, Err: err}
	}
	if len(users) == 0 {
		return 0, ErrInvalidCredentials
	}

	c.logger.DebugContext(ctx, "Login verified", log.FieldUserID, users[0].ID)
	return users[0].ID, nil
}
