package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vantage-console/internal/domain/directory"
	"vantage-console/internal/domain/session"
	"vantage-console/internal/pkg/cookie"
	"vantage-console/internal/pkg/token"
)

type fakeDirectory struct {
	byID map[string]*directory.UserRecord
	err  error
}

func (f *fakeDirectory) FindUserByEmail(ctx context.Context, email string) (*directory.UserRecord, error) {
	return nil, nil
}

func (f *fakeDirectory) FindUserByID(ctx context.Context, id string) (*directory.UserRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byID[id], nil
}

func newGateEngine(dir directory.Directory) (*gin.Engine, *token.Codec) {
	gin.SetMode(gin.TestMode)

	codec := token.NewCodec([]byte("gate-secret"), time.Hour)
	gate := NewSessionGate(codec, dir, false, zap.NewNop())

	r := gin.New()
	r.Use(gate.Handle())
	r.NoRoute(func(c *gin.Context) {
		if sess, ok := CurrentSession(c); ok {
			c.JSON(http.StatusOK, gin.H{"role": sess.Role})
			return
		}
		c.String(http.StatusOK, "public")
	})

	return r, codec
}

func issue(t *testing.T, codec *token.Codec, role session.Role) string {
	t.Helper()
	signed, err := codec.Issue(&session.Session{
		SubjectID: "1001",
		Email:     "user@example.com",
		Role:      role,
	})
	require.NoError(t, err)
	return signed
}

func get(r *gin.Engine, path, tok string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if tok != "" {
		req.AddCookie(&http.Cookie{Name: cookie.SessionName, Value: tok})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProtectedWithoutTokenRedirectsToLogin(t *testing.T) {
	r, _ := newGateEngine(&fakeDirectory{})

	w := get(r, "/organizations", "")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2Forganizations", w.Header().Get("Location"))
}

func TestRedirectPreservesQueryString(t *testing.T) {
	r, _ := newGateEngine(&fakeDirectory{})

	w := get(r, "/organizations?page=2&sort=name", "")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2Forganizations%3Fpage%3D2%26sort%3Dname", w.Header().Get("Location"))
}

func TestInvalidTokenTreatedAsNoToken(t *testing.T) {
	r, _ := newGateEngine(&fakeDirectory{})

	w := get(r, "/organizations", "garbage-token")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2Forganizations", w.Header().Get("Location"))
}

func TestValidTokenPassesThrough(t *testing.T) {
	dir := &fakeDirectory{byID: map[string]*directory.UserRecord{
		"1001": {ID: "1001", Email: "user@example.com", Role: "TENANT"},
	}}
	r, codec := newGateEngine(dir)

	w := get(r, "/setup", issue(t, codec, session.RoleTenant))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "TENANT")
	assert.Empty(t, w.Header().Get("Set-Cookie"))
}

func TestElevatedOnlyDowngradeRedirect(t *testing.T) {
	dir := &fakeDirectory{byID: map[string]*directory.UserRecord{
		"1001": {ID: "1001", Email: "user@example.com", Role: "TENANT"},
	}}
	r, codec := newGateEngine(dir)

	w := get(r, "/admin/x", issue(t, codec, session.RoleTenant))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/organizations", w.Header().Get("Location"))
}

func TestElevatedRoleReachesAdmin(t *testing.T) {
	dir := &fakeDirectory{byID: map[string]*directory.UserRecord{
		"1001": {ID: "1001", Email: "user@example.com", Role: "OWNER"},
	}}
	r, codec := newGateEngine(dir)

	w := get(r, "/admin/plans", issue(t, codec, session.RoleOwner))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStaleRoleReissuesCookie(t *testing.T) {
	// Directory promoted the user since the token was issued.
	dir := &fakeDirectory{byID: map[string]*directory.UserRecord{
		"1001": {ID: "1001", Email: "user@example.com", Role: "ADMIN"},
	}}
	r, codec := newGateEngine(dir)

	w := get(r, "/setup", issue(t, codec, session.RoleTenant))

	// The request itself proceeds; the corrected role rides out on the
	// refreshed cookie.
	assert.Equal(t, http.StatusOK, w.Code)

	resp := w.Result()
	var refreshed string
	for _, c := range resp.Cookies() {
		if c.Name == cookie.SessionName {
			refreshed = c.Value
		}
	}
	require.NotEmpty(t, refreshed, "expected a refreshed session cookie")

	sess, err := codec.Verify(refreshed)
	require.NoError(t, err)
	assert.Equal(t, session.RoleAdmin, sess.Role)
	assert.Equal(t, "1001", sess.SubjectID)
	assert.Equal(t, "user@example.com", sess.Email)
}

func TestDemotionBlocksElevatedPathSameRequest(t *testing.T) {
	// Token says OWNER but the directory has demoted the user: the
	// elevated-only check runs on the corrected role.
	dir := &fakeDirectory{byID: map[string]*directory.UserRecord{
		"1001": {ID: "1001", Email: "user@example.com", Role: "TENANT"},
	}}
	r, codec := newGateEngine(dir)

	w := get(r, "/admin/x", issue(t, codec, session.RoleOwner))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/organizations", w.Header().Get("Location"))
}

func TestDirectoryFailureDegradesToTokenRole(t *testing.T) {
	dir := &fakeDirectory{err: assert.AnError}
	r, codec := newGateEngine(dir)

	w := get(r, "/setup", issue(t, codec, session.RoleTenant))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Set-Cookie"))
}

func TestUnknownSubjectKeepsTokenRole(t *testing.T) {
	dir := &fakeDirectory{byID: map[string]*directory.UserRecord{}}
	r, codec := newGateEngine(dir)

	w := get(r, "/setup", issue(t, codec, session.RoleTenant))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Set-Cookie"))
}

func TestRootRedirectsAuthenticatedUserHome(t *testing.T) {
	r, codec := newGateEngine(&fakeDirectory{})

	w := get(r, "/", issue(t, codec, session.RoleSuperAdmin))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/organizations", w.Header().Get("Location"))

	w = get(r, "/", issue(t, codec, session.RoleTenant))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/setup", w.Header().Get("Location"))
}

func TestPublicPageRendersWithCorruptCookie(t *testing.T) {
	r, _ := newGateEngine(&fakeDirectory{})

	for _, path := range []string{"/", "/login", "/privacy"} {
		w := get(r, path, "corrupt")
		assert.Equal(t, http.StatusOK, w.Code, "path %q", path)
		assert.Equal(t, "public", w.Body.String())
	}
}

func TestAssetPathsBypassGate(t *testing.T) {
	r, _ := newGateEngine(&fakeDirectory{})

	w := get(r, "/assets/logo.png", "")

	assert.Equal(t, http.StatusOK, w.Code)
}
