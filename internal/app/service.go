package app

import (
	"context"
	"time"

	"fieldnote/api/internal/ai"
	"fieldnote/api/internal/auth"
	"fieldnote/api/internal/authpw"
	"fieldnote/api/internal/blob"
	"fieldnote/api/internal/config"
	"fieldnote/api/internal/crm"
	"fieldnote/api/internal/search"
	"fieldnote/api/internal/store"
	"fieldnote/api/internal/util"
)

type Session struct {
	Token        string
	RefreshToken string
	UserID       string
	UserName     string
	Email        string
	JTI          string
	ExpiresAt    time.Time
}

// SessionStore holds refresh tokens; backed by Redis when configured, the
// relational store otherwise.
type SessionStore interface {
	SaveRefreshSession(ctx context.Context, tokenHash string, user store.User, expiresAt time.Time) error
	LookupRefreshSession(ctx context.Context, tokenHash string) (store.User, error)
	RevokeRefreshSession(ctx context.Context, tokenHash string) error
}

type Service struct {
	cfg      config.Config
	store    store.Store
	sessions SessionStore
	blob     blob.Store
	engine   ai.Engine
	search   *search.Service
	passwd   *authpw.Service
	linker   *crm.Linker
	now      func() time.Time
}

func New(cfg config.Config, st store.Store, sessions SessionStore, blobStore blob.Store, engine ai.Engine, searchSvc *search.Service) *Service {
	return &Service{
		cfg:      cfg,
		store:    st,
		sessions: sessions,
		blob:     blobStore,
		engine:   engine,
		search:   searchSvc,
		passwd:   authpw.NewService(st),
		linker:   crm.NewLinker(st),
		now:      time.Now,
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) SignUp(ctx context.Context, email, password, fullName string) (Session, error) {
	user, err := s.passwd.SignUp(ctx, authpw.SignUpRequest{
		Email:    email,
		Password: password,
		FullName: fullName,
	})
	if err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	user, err := s.passwd.SignIn(ctx, authpw.SignInRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

// Refresh rotates a refresh token: the old one is revoked and a fresh pair
// is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	tokenHash := auth.HashToken(refreshToken)
	user, err := s.sessions.LookupRefreshSession(ctx, tokenHash)
	if err != nil {
		return Session{}, err
	}
	if err := s.sessions.RevokeRefreshSession(ctx, tokenHash); err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

func (s *Service) issueSession(ctx context.Context, user store.User) (Session, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.AccessTTL)
	jti := util.NewID("jti")

	token, err := auth.IssueToken([]byte(s.cfg.TokenSecret), auth.Claims{
		Sub:   user.ID,
		Name:  user.FullName,
		Email: user.Email,
		JTI:   jti,
		Exp:   expiresAt.Unix(),
	})
	if err != nil {
		return Session{}, err
	}

	refresh := util.NewID("rft") + util.NewID("")
	refreshExpires := now.Add(s.cfg.RefreshTTL)
	if err := s.sessions.SaveRefreshSession(ctx, auth.HashToken(refresh), user, refreshExpires); err != nil {
		return Session{}, err
	}

	return Session{
		Token:        token,
		RefreshToken: refresh,
		UserID:       user.ID,
		UserName:     user.FullName,
		Email:        user.Email,
		JTI:          jti,
		ExpiresAt:    expiresAt,
	}, nil
}

// SessionFromToken resolves a request session from the access token alone;
// the claims carry everything the request path needs.
func (s *Service) SessionFromToken(ctx context.Context, token string) (Session, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.TokenSecret), token)
	if err != nil {
		return Session{}, err
	}

	return Session{
		Token:     token,
		UserID:    claims.Sub,
		UserName:  claims.Name,
		Email:     claims.Email,
		JTI:       claims.JTI,
		ExpiresAt: time.Unix(claims.Exp, 0),
	}, nil
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken != "" {
		_ = s.sessions.RevokeRefreshSession(ctx, auth.HashToken(refreshToken))
	}
	return nil
}

// Search runs a user-scoped search across notes and contacts.
func (s *Service) Search(ctx context.Context, session Session, text, filterType string, limit int) search.Response {
	return s.search.Search(ctx, search.Query{
		UserID:     session.UserID,
		Text:       text,
		FilterType: search.ResultType(filterType),
		Limit:      limit,
	})
}
