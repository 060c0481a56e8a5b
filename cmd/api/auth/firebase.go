package auth

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"techsphere/config"
	"techsphere/models"
)

// FirebaseProvider verifies Firebase ID tokens and reads/updates Firebase users.
type FirebaseProvider struct {
	client *fbauth.Client
}

var _ Provider = (*FirebaseProvider)(nil)

// NewFirebaseProvider uses the service-account file when configured, otherwise
// application default credentials.
func NewFirebaseProvider(ctx context.Context, cfg config.AuthConfig) (*FirebaseProvider, error) {
	var opts []option.ClientOption
	if cfg.FirebaseCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	}

	var fbCfg *firebase.Config
	if cfg.FirebaseProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return &FirebaseProvider{client: client}, nil
}

func (p *FirebaseProvider) VerifyToken(ctx context.Context, token string) (*Identity, error) {
	tok, err := p.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return identityFromToken(tok), nil
}

func (p *FirebaseProvider) GetUser(ctx context.Context, uid string) (*models.User, error) {
	rec, err := p.client.GetUser(ctx, uid)
	if err != nil {
		if fbauth.IsUserNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return userFromRecord(rec), nil
}

func (p *FirebaseProvider) UpdateUser(ctx context.Context, uid string, upd UserUpdate) (*models.User, error) {
	if upd.Empty() {
		return p.GetUser(ctx, uid)
	}

	params := &fbauth.UserToUpdate{}
	if upd.DisplayName != "" {
		params = params.DisplayName(upd.DisplayName)
	}
	if upd.PhotoURL != "" {
		params = params.PhotoURL(upd.PhotoURL)
	}

	rec, err := p.client.UpdateUser(ctx, uid, params)
	if err != nil {
		if fbauth.IsUserNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return userFromRecord(rec), nil
}

func identityFromToken(tok *fbauth.Token) *Identity {
	email, _ := tok.Claims["email"].(string)
	name, _ := tok.Claims["name"].(string)
	return &Identity{UID: tok.UID, Email: email, DisplayName: name}
}

func userFromRecord(rec *fbauth.UserRecord) *models.User {
	u := &models.User{}
	if rec.UserInfo != nil {
		u.UID = rec.UID
		u.Email = rec.Email
		u.DisplayName = rec.DisplayName
		u.PhotoURL = rec.PhotoURL
	}
	if rec.UserMetadata != nil && rec.UserMetadata.CreationTimestamp > 0 {
		u.CreatedAt = time.UnixMilli(rec.UserMetadata.CreationTimestamp).UTC()
	}
	return u
}
