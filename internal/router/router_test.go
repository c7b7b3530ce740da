package router

import (
	"context"
	"testing"

	"Mansoor88-6/nagster-console/internal/auth"
	"Mansoor88-6/nagster-console/internal/models"
	"Mansoor88-6/nagster-console/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		path  string
		state auth.State
		want  Decision
	}{
		{"/", auth.Unauthenticated, Decision{Page: PageHome, Path: "/"}},
		{"", auth.Authenticated, Decision{Page: PageHome, Path: "/"}},
		{"/docs", auth.Unauthenticated, Decision{Page: PageDocs, Path: "/docs"}},
		{"/login", auth.Unauthenticated, Decision{Page: PageLogin, Path: "/login"}},
		{"/signup", auth.Restoring, Decision{Page: PageSignup, Path: "/signup"}},
		{"/login", auth.Authenticated, Decision{Page: PageDashboard, Path: "/dashboard", Redirected: true}},
		{"/signup", auth.Authenticated, Decision{Page: PageDashboard, Path: "/dashboard", Redirected: true}},
		{"/dashboard", auth.Authenticated, Decision{Page: PageDashboard, Path: "/dashboard"}},
		{"/dashboard/", auth.Authenticated, Decision{Page: PageDashboard, Path: "/dashboard"}},
		{"/Dashboard?x=1", auth.Authenticated, Decision{Page: PageDashboard, Path: "/dashboard"}},
		{"/dashboard", auth.Restoring, Decision{Page: PagePlaceholder, Path: "/dashboard"}},
		{"/dashboard", auth.Unauthenticated, Decision{Page: PageLogin, Path: "/login", Redirected: true}},
		{"/nope", auth.Unauthenticated, Decision{Page: PageHome, Path: "/", Redirected: true}},
		{"/nope", auth.Authenticated, Decision{Page: PageHome, Path: "/", Redirected: true}},
		{"dashboard", auth.Authenticated, Decision{Page: PageDashboard, Path: "/dashboard"}},
	}
	for _, tt := range tests {
		t.Run(tt.path+"/"+tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.path, tt.state))
		})
	}
}

type stubAPI struct {
	profile *models.UserProfile
}

func (s *stubAPI) Login(ctx context.Context, u, p string) (*models.AuthResponse, error) {
	return &models.AuthResponse{AccessToken: "tok", Role: "admin"}, nil
}

func (s *stubAPI) Signup(ctx context.Context, u, p, r string) (*models.AuthResponse, error) {
	return &models.AuthResponse{}, nil
}

func (s *stubAPI) Me(ctx context.Context, token string) (*models.UserProfile, error) {
	if s.profile == nil {
		return &models.UserProfile{}, nil
	}
	return s.profile, nil
}

func (s *stubAPI) SetToken(string) {}

func TestNavigator_FollowsSession(t *testing.T) {
	api := &stubAPI{profile: &models.UserProfile{Username: "boss", Role: "admin"}}
	store := auth.NewStore(api, storage.NewMemoryStore(), zap.NewNop())

	nav, stop := NewNavigator(store, "/dashboard", zap.NewNop())
	defer stop()
	assert.Equal(t, PageLogin, nav.Current().Page)

	require.NoError(t, store.Login(context.Background(), "boss", "pw"))
	assert.Equal(t, Decision{Page: PageDashboard, Path: "/dashboard"}, nav.Current())

	store.Logout()
	assert.Equal(t, Decision{Page: PageLogin, Path: "/login"}, nav.Current())
}

func TestNavigator_RestoreShowsPlaceholderThenDashboard(t *testing.T) {
	mem := storage.NewMemoryStore()
	require.NoError(t, mem.Set(storage.KeyToken, "tok"))
	require.NoError(t, mem.Set(storage.KeyRole, "admin"))
	api := &stubAPI{profile: &models.UserProfile{Username: "boss"}}
	store := auth.NewStore(api, mem, zap.NewNop())
	require.True(t, store.Boot())

	nav, stop := NewNavigator(store, "/dashboard", zap.NewNop())
	defer stop()
	assert.Equal(t, PagePlaceholder, nav.Current().Page)

	require.NoError(t, store.Restore(context.Background()))
	assert.Equal(t, PageDashboard, nav.Current().Page)
}

func TestNavigator_RestoreFailureLandsOnLogin(t *testing.T) {
	mem := storage.NewMemoryStore()
	require.NoError(t, mem.Set(storage.KeyToken, "tok"))
	require.NoError(t, mem.Set(storage.KeyRole, "admin"))
	store := auth.NewStore(&stubAPI{}, mem, zap.NewNop())
	require.True(t, store.Boot())

	nav, stop := NewNavigator(store, "/dashboard", zap.NewNop())
	defer stop()

	assert.Error(t, store.Restore(context.Background()))
	assert.Equal(t, PageLogin, nav.Current().Page)
}

func TestNavigator_GoAndBack(t *testing.T) {
	store := auth.NewStore(&stubAPI{}, storage.NewMemoryStore(), zap.NewNop())
	nav, stop := NewNavigator(store, "/", zap.NewNop())
	defer stop()

	assert.Equal(t, PageDocs, nav.Go("/docs").Page)
	assert.Equal(t, PageSignup, nav.Go("/signup").Page)
	assert.Equal(t, PageHome, nav.Go("/missing").Page)

	assert.Equal(t, PageSignup, nav.Back().Page)
	assert.Equal(t, PageDocs, nav.Back().Page)
	assert.Equal(t, PageHome, nav.Back().Page)
	assert.Equal(t, PageHome, nav.Back().Page)
}
