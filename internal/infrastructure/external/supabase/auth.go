package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ashwiniraykar1997/speech-to-text-app/internal/domain/entities"
)

// GetUserByToken asks Supabase Auth who owns the access token. The raw JSON object is returned;
// its shape differs between API versions and is interpreted by the identity resolver.
func (c *Client) GetUserByToken(ctx context.Context, token string) (map[string]interface{}, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: supabase not configured", entities.ErrIdentityUnavailable)
	}

	status, body, err := c.do(ctx, c.auth, http.MethodGet, c.baseURL+"/auth/v1/user", nil,
		map[string]string{"Authorization": "Bearer " + token})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrIdentityUnavailable, err)
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", entities.ErrInvalidToken, status)
	case status != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", entities.ErrIdentityUnavailable, status)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: invalid user payload: %v", entities.ErrIdentityUnavailable, err)
	}
	return payload, nil
}
