package application

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/rizqidamar/timely/internal/domain/domainerr"
	"github.com/rizqidamar/timely/internal/domain/entity"
	repo "github.com/rizqidamar/timely/internal/domain/repository"
	"github.com/rizqidamar/timely/pkg/helpers"
	"github.com/rizqidamar/timely/pkg/mailer"
)

func keyVerifyToken(t string) string { return "email:verify:token:" + t }

// Options carries the process-wide settings the service needs. Constructed
// once at startup and read-only afterwards.
type Options struct {
	AccessTokenMinutes  int
	RefreshTokenMinutes int
	ESUsersIndex        string
	VerifyEmailURL      string
	MailSendEnabled     bool
}

// Service orchestrates the identity workflows: user provisioning, login,
// token refresh, and email verification. Redis, the queue publisher, and
// Elasticsearch are optional collaborators; side paths that need them are
// skipped when nil.
type Service struct {
	Repo   repo.UserRepository
	Auth   AuthSecurity
	Redis  *redis.Client
	Pub    *helpers.RabbitPublisher
	ES     *elasticsearch.Client
	Logger *logrus.Logger
	Opts   Options
}

func NewService(r repo.UserRepository, auth AuthSecurity, rdb *redis.Client, pub *helpers.RabbitPublisher, es *elasticsearch.Client, logger *logrus.Logger, opts Options) *Service {
	return &Service{Repo: r, Auth: auth, Redis: rdb, Pub: pub, ES: es, Logger: logger, Opts: opts}
}

type RegisterInput struct {
	Email     string
	Phone     string
	Password  string
	FirstName string
	LastName  string
}

// Register provisions a new user. The email pre-check is advisory; the
// authoritative uniqueness guarantee is the storage constraint, which the
// repository surfaces as the same DuplicateEntity error.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	existing, err := s.Repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domainerr.New(domainerr.DuplicateEntity, fmt.Sprintf("user with email %s already exists", in.Email))
	}

	hash, err := s.Auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := entity.NewUser(in.Email, in.Phone, hash, in.FirstName, in.LastName)
	created, err := s.Repo.Create(ctx, u)
	if err != nil {
		return nil, err
	}

	// Best effort; registration already committed.
	s.sendVerificationEmail(ctx, created)
	_ = s.indexUser(ctx, created)

	return created, nil
}

// Login validates credentials and issues an access/refresh token pair.
// Unknown email and wrong password collapse to one InvalidCredentials error;
// infrastructure failures propagate unchanged.
func (s *Service) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	invalid := domainerr.New(domainerr.InvalidCredentials, "invalid email or password")

	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if u == nil || !s.Auth.VerifyPassword(password, u.PasswordHash) {
		return nil, TokenPair{}, invalid
	}

	pair, err := s.issueTokens(u)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("token issuance failed")
		}
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

func (s *Service) issueTokens(u *entity.User) (TokenPair, error) {
	payload := map[string]any{"sub": u.ID, "email": u.Email}

	access, err := s.Auth.CreateToken(payload, TokenAccess, s.Opts.AccessTokenMinutes)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.Auth.CreateToken(payload, TokenRefresh, s.Opts.RefreshTokenMinutes)
	if err != nil {
		return TokenPair{}, err
	}

	now := time.Now().UTC()
	return TokenPair{
		AccessToken:        access,
		AccessTokenExpiry:  now.Add(time.Duration(s.Opts.AccessTokenMinutes) * time.Minute),
		RefreshToken:       refresh,
		RefreshTokenExpiry: now.Add(time.Duration(s.Opts.RefreshTokenMinutes) * time.Minute),
	}, nil
}

// Refresh mints a new access token from a valid refresh token. The refresh
// token is returned unchanged: there is no rotation or revocation.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	invalid := domainerr.New(domainerr.InvalidCredentials, "invalid refresh token")

	claims, err := s.Auth.ParseToken(refreshToken, TokenRefresh)
	if err != nil {
		return TokenPair{}, invalid
	}
	sub, _ := claims["sub"].(string)
	u, err := s.Repo.GetByID(ctx, sub)
	if err != nil {
		if domainerr.Is(err, domainerr.NotFound) {
			return TokenPair{}, invalid
		}
		return TokenPair{}, err
	}

	access, err := s.Auth.CreateToken(map[string]any{"sub": u.ID, "email": u.Email}, TokenAccess, s.Opts.AccessTokenMinutes)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:        access,
		AccessTokenExpiry:  time.Now().UTC().Add(time.Duration(s.Opts.AccessTokenMinutes) * time.Minute),
		RefreshToken:       refreshToken,
		RefreshTokenExpiry: expiryFromClaims(claims),
	}, nil
}

func expiryFromClaims(claims map[string]any) time.Time {
	switch v := claims["exp"].(type) {
	case float64:
		return time.Unix(int64(v), 0).UTC()
	case int64:
		return time.Unix(v, 0).UTC()
	}
	return time.Time{}
}

// Profile returns the user for a verified access-token subject.
func (s *Service) Profile(ctx context.Context, id string) (*entity.User, error) {
	return s.Repo.GetByID(ctx, id)
}

// ConfirmEmail redeems a one-time verification token and marks the user
// verified. Tokens live in Redis with a TTL and are deleted on use.
func (s *Service) ConfirmEmail(ctx context.Context, token string) error {
	invalid := domainerr.New(domainerr.ValidationError, "invalid or expired verification token")

	if s.Redis == nil || token == "" {
		return invalid
	}
	uid, err := s.Redis.Get(ctx, keyVerifyToken(token)).Result()
	if err != nil || uid == "" {
		return invalid
	}
	if err := s.Repo.SetVerified(ctx, uid); err != nil {
		return err
	}
	s.Redis.Del(ctx, keyVerifyToken(token))
	return nil
}

func genToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (s *Service) sendVerificationEmail(ctx context.Context, u *entity.User) {
	if s.Redis == nil || s.Pub == nil || !s.Opts.MailSendEnabled {
		return
	}
	tok, err := genToken(32)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, keyVerifyToken(tok), u.ID, 24*time.Hour).Err(); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("store verify token failed")
		}
		return
	}
	link := s.Opts.VerifyEmailURL + "?token=" + tok
	job := mailer.EmailJob{
		To:      u.Email,
		Subject: "Verify your email address",
		Text:    "Welcome! Confirm your email address by opening this link: " + link + "\nThe link expires in 24 hours.",
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("enqueue verification email failed")
	}
}

func (s *Service) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.Opts.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"phone":      u.Phone,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.Opts.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

// SearchUsers performs a multi_match search on email and name fields.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.Opts.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "first_name", "last_name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.Opts.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
