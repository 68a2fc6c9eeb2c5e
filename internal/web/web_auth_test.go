package web_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/playtracker/internal/factory"
)

func TestSignupPage(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/signup")
	assert.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, "form#signup-form[action='/signup']")
	for _, field := range []string{"username", "email", "password", "confirm_password", "is_admin", "admin_password"} {
		assertContainsElement(t, doc, "input[name='"+field+"']")
	}
}

func TestSignup(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.post("/signup", signupForm("alice", "secret123"))

	// Should redirect to home with a success flash
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	// Signing up does not log in
	assert.False(t, ts.cookies.hasSession())

	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, ".flash-success")

	user := ts.userByName("alice")
	require.NotNil(t, user)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.False(t, user.IsAdmin)
	assert.Equal(t, 0, user.Ranking)
	assert.Equal(t, 0, user.TetrisCount)
	assert.Equal(t, 0, user.CodCount)

	// Stored hashed, never plaintext
	assert.NotEqual(t, "secret123", user.Password)
	assert.True(t, user.CheckPassword("secret123"))
}

func TestSignupDuplicateName(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signup("alice", "secret123")

	rr := ts.post("/signup", signupForm("alice", "other"))
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/signup", rr.Header().Get("Location"))

	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash-error", "already exists")

	users, err := ts.app.AccountService.List(t.Context())
	require.NoError(t, err)
	count := 0
	for _, u := range users {
		if u.Name == "alice" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestSignupPasswordMismatch(t *testing.T) {
	ts := newWebTestServer(t)

	form := signupForm("alice", "secret123")
	form.Set("confirm_password", "secret124")
	rr := ts.post("/signup", form)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/signup", rr.Header().Get("Location"))

	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash-error", "do not match")
	assert.Nil(t, ts.userByName("alice"))
}

func TestSignupMissingFields(t *testing.T) {
	ts := newWebTestServer(t)

	for _, field := range []string{"username", "password", "email"} {
		t.Run(field, func(t *testing.T) {
			form := signupForm("alice", "secret123")
			form.Set(field, "")
			rr := ts.post("/signup", form)

			assert.Equal(t, http.StatusFound, rr.Code)
			assert.Equal(t, "/signup", rr.Header().Get("Location"))
			assert.Nil(t, ts.userByName("alice"))
		})
	}
}

func TestSignupAdminWithWrongSecret(t *testing.T) {
	ts := newWebTestServer(t)

	form := signupForm("mallory", "secret123")
	form.Set("is_admin", "on")
	form.Set("admin_password", "guess")
	rr := ts.post("/signup", form)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/plain"))
	assert.Equal(t, "Incorrect administrator password.", strings.TrimSpace(rr.Body.String()))
	assert.Nil(t, ts.userByName("mallory"))
}

func TestSignupAdminWithCorrectSecret(t *testing.T) {
	ts := newWebTestServer(t)

	form := signupForm("root", "secret123")
	form.Set("is_admin", "on")
	form.Set("admin_password", factory.TestAdminPassword)
	rr := ts.post("/signup", form)
	assert.Equal(t, http.StatusFound, rr.Code)

	user := ts.userByName("root")
	require.NotNil(t, user)
	assert.True(t, user.IsAdmin)
}

func TestSignupAdminSecretIgnoredWithoutFlag(t *testing.T) {
	ts := newWebTestServer(t)

	form := signupForm("carol", "secret123")
	form.Set("admin_password", factory.TestAdminPassword)
	ts.post("/signup", form)

	user := ts.userByName("carol")
	require.NotNil(t, user)
	assert.False(t, user.IsAdmin)
}

func TestLoginPage(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/login")
	assert.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, "form#login-form[action='/login']")
	assertContainsElement(t, doc, "input[name='name']")
	assertContainsElement(t, doc, "input[name='password']")
	assertNotContainsElement(t, doc, "p.error")
}

func TestLoginRedirectsPlayerToProfile(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signup("alice", "secret123")

	rr := ts.login("alice", "secret123")
	assert.Equal(t, "/profile", rr.Header().Get("Location"))
}

func TestLoginRedirectsAdminToUsers(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.login("admin", factory.TestAdminPassword)
	assert.Equal(t, "/admin/users", rr.Header().Get("Location"))
}

func TestLoginFailure(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signup("alice", "secret123")

	cases := map[string]url.Values{
		"wrong password": {"name": {"alice"}, "password": {"wrong"}},
		"unknown user":   {"name": {"nobody"}, "password": {"secret123"}},
		"empty":          {"name": {""}, "password": {""}},
	}
	for name, form := range cases {
		t.Run(name, func(t *testing.T) {
			rr := ts.post("/login", form)

			// Re-rendered inline, no redirect
			assert.Equal(t, http.StatusOK, rr.Code)
			doc := parseHTML(rr.Body)
			assertContainsText(t, doc, "p.error", "Incorrect user name or password.")
			assertContainsElement(t, doc, "form#login-form")

			assert.False(t, ts.cookies.hasSession())
		})
	}
}

func TestLoginFailureKeepsName(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.post("/login", url.Values{"name": {"alice"}, "password": {"wrong"}})
	doc := parseHTML(rr.Body)

	value, _ := doc.Find("input[name='name']").Attr("value")
	assert.Equal(t, "alice", value)
}

func TestLogout(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAsPlayer("alice")
	token := ts.cookies.cookies["session"].Value

	rr := ts.post("/logout", nil)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.False(t, ts.cookies.hasSession())

	// The old token no longer works even if replayed
	ts.cookies.cookies["session"] = &http.Cookie{Name: "session", Value: token}
	rr = ts.get("/profile")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
}

func TestForgedSessionCookieIsCleared(t *testing.T) {
	ts := newWebTestServer(t)
	ts.cookies.cookies["session"] = &http.Cookie{Name: "session", Value: "not-a-token"}

	rr := ts.get("/")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, ts.cookies.hasSession())

	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, "nav a[href='/login']")
}

func TestNavigationReflectsLoginState(t *testing.T) {
	ts := newWebTestServer(t)

	doc := parseHTML(ts.get("/").Body)
	assertContainsElement(t, doc, "nav a[href='/signup']")
	assertNotContainsElement(t, doc, "nav a[href='/profile']")

	ts.loginAsPlayer("alice")
	doc = parseHTML(ts.get("/").Body)
	assertContainsElement(t, doc, "nav a[href='/profile']")
	assertContainsElement(t, doc, "nav form[action='/logout']")
	assertNotContainsElement(t, doc, "nav a[href='/admin/users']")

	ts.logoutLocally()
	ts.loginAsAdmin()
	doc = parseHTML(ts.get("/").Body)
	assertContainsElement(t, doc, "nav a[href='/admin/users']")
	assertContainsElement(t, doc, "nav a[href='/admin/users/rank']")
}
