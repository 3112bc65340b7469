package identity

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ashwiniraykar1997/speech-to-text-app/internal/domain/entities"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/infrastructure/metrics"
	"github.com/ashwiniraykar1997/speech-to-text-app/pkg/jwt"
)

// Provider looks up the owner of an access token at the identity provider
type Provider interface {
	Configured() bool
	GetUserByToken(ctx context.Context, token string) (map[string]interface{}, error)
}

// Resolver turns a bearer credential into a caller identity.
// Lookup order: identity provider, local signature check, unverified payload decode.
type Resolver struct {
	provider     Provider
	verifier     *jwt.Manager
	allowClaimed bool
	timeout      time.Duration
	logger       *zap.Logger
}

// NewResolver creates a new identity resolver. provider and verifier may be nil.
func NewResolver(provider Provider, verifier *jwt.Manager, allowClaimed bool, timeout time.Duration, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		provider:     provider,
		verifier:     verifier,
		allowClaimed: allowClaimed,
		timeout:      timeout,
		logger:       logger,
	}
}

// BearerToken extracts the credential from an Authorization header value
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) >= 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// Resolve returns the caller identity or nil. It never fails: every error means "anonymous".
func (r *Resolver) Resolve(ctx context.Context, credential string) *entities.Identity {
	token := BearerToken(credential)
	if token == "" {
		return nil
	}

	id, source := r.resolve(ctx, token)
	if id == nil {
		metrics.IdentityResolutionsTotal.WithLabelValues("anonymous").Inc()
		r.logger.Debug("credential did not resolve to an identity")
		return nil
	}
	metrics.IdentityResolutionsTotal.WithLabelValues(string(id.Kind)).Inc()
	r.logger.Debug("identity resolved",
		zap.String("source", source),
		zap.String("kind", string(id.Kind)),
		zap.String("user_id", id.ID),
	)
	return id
}

func (r *Resolver) resolve(ctx context.Context, token string) (*entities.Identity, string) {
	if id := r.resolveRemote(ctx, token); id != nil {
		return id, "provider"
	}
	if id := r.resolveSigned(token); id != nil {
		return id, "signature"
	}
	if r.allowClaimed {
		return r.resolveClaimed(token), "payload"
	}
	return nil, ""
}

func (r *Resolver) resolveRemote(ctx context.Context, token string) *entities.Identity {
	if r.provider == nil || !r.provider.Configured() {
		return nil
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	payload, err := r.provider.GetUserByToken(ctx, token)
	if err != nil {
		r.logger.Debug("identity provider lookup failed", zap.Error(err))
		return nil
	}
	user := extractUser(payload)
	if user == nil {
		return nil
	}
	id, email := jwt.IdentityFromClaims(user)
	if id == "" {
		return nil
	}
	return &entities.Identity{ID: id, Email: email, Kind: entities.IdentityVerified}
}

func (r *Resolver) resolveSigned(token string) *entities.Identity {
	if !r.verifier.Enabled() {
		return nil
	}
	claims, err := r.verifier.ValidateAccessToken(token)
	if err != nil {
		r.logger.Debug("local token verification failed", zap.Error(err))
		return nil
	}
	return &entities.Identity{ID: claims.Identifier(), Email: claims.Email, Kind: entities.IdentityVerified}
}

func (r *Resolver) resolveClaimed(token string) *entities.Identity {
	claims, err := jwt.DecodeUnverified(token)
	if err != nil {
		r.logger.Debug("credential payload not decodable", zap.Error(err))
		return nil
	}
	id, email := jwt.IdentityFromClaims(claims)
	if id == "" {
		return nil
	}
	return &entities.Identity{ID: id, Email: email, Kind: entities.IdentityClaimed}
}

// extractUser accepts {data:{user:{...}}}, {data:{...}}, {user:{...}} and a flat user object
func extractUser(payload map[string]interface{}) map[string]interface{} {
	if payload == nil {
		return nil
	}
	if data, ok := payload["data"].(map[string]interface{}); ok {
		if user, ok := data["user"].(map[string]interface{}); ok {
			return user
		}
		return data
	}
	if user, ok := payload["user"].(map[string]interface{}); ok {
		return user
	}
	return payload
}
