package web_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/playtracker/internal/factory"
	"github.com/mcoot/playtracker/internal/model"
	"github.com/mcoot/playtracker/internal/testutil"
	"github.com/mcoot/playtracker/internal/web"
)

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
	cookies *cookieJar
}

// newWebTestServer creates a new test server with all dependencies wired
func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()

	app := factory.NewTestApp(t)
	require.NoError(t, app.Bootstrap.Run(t.Context()))

	router := web.NewRouter(web.RouterConfig{
		Logger:         testutil.NopLogger(),
		AuthService:    app.AuthService,
		AccountService: app.AccountService,
		StaticDir:      "static",
	})

	return &webTestServer{
		t:       t,
		handler: router,
		app:     app,
		cookies: newCookieJar(),
	}
}

// request makes an HTTP request and returns the response
func (ts *webTestServer) request(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	// Add cookies from jar
	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	// Extract Set-Cookie headers into jar
	ts.cookies.extract(rr)

	return rr
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil)
}

// post makes a POST request with form data
func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form)
}

// parseHTML parses the response body as HTML
func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{
		cookies: make(map[string]*http.Cookie),
	}
}

// addTo adds all cookies to the request
func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(cookie)
	}
}

// extract extracts Set-Cookie headers from response
func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			// Cookie being deleted
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

// hasSession returns true if the session cookie is set
func (j *cookieJar) hasSession() bool {
	_, ok := j.cookies["session"]
	return ok
}

// Helper functions for common test operations

func signupForm(name, password string) url.Values {
	return url.Values{
		"username":         {name},
		"email":            {name + "@example.com"},
		"password":         {password},
		"confirm_password": {password},
	}
}

// signup creates an account through the signup form
func (ts *webTestServer) signup(name, password string) {
	ts.t.Helper()
	rr := ts.post("/signup", signupForm(name, password))
	require.Equal(ts.t, http.StatusFound, rr.Code, "Expected redirect after signup")
	require.Equal(ts.t, "/", rr.Header().Get("Location"))
}

// login submits the login form and expects success
func (ts *webTestServer) login(name, password string) *httptest.ResponseRecorder {
	ts.t.Helper()
	rr := ts.post("/login", url.Values{"name": {name}, "password": {password}})
	require.Equal(ts.t, http.StatusFound, rr.Code, "Expected redirect after login")
	require.True(ts.t, ts.cookies.hasSession(), "Expected session cookie to be set")
	return rr
}

// loginAsPlayer signs up and logs in a regular user, returning its row
func (ts *webTestServer) loginAsPlayer(name string) *model.User {
	ts.t.Helper()
	ts.signup(name, "pw-"+name)
	ts.login(name, "pw-"+name)
	return ts.userByName(name)
}

// loginAsAdmin logs in as the seeded admin
func (ts *webTestServer) loginAsAdmin() {
	ts.t.Helper()
	ts.login(model.AdminName, factory.TestAdminPassword)
}

// logoutLocally drops the session cookie without contacting the server
func (ts *webTestServer) logoutLocally() {
	delete(ts.cookies.cookies, "session")
}

// userByName loads a user row straight from the store
func (ts *webTestServer) userByName(name string) *model.User {
	ts.t.Helper()
	users, err := ts.app.AccountService.List(ts.t.Context())
	require.NoError(ts.t, err)
	for i := range users {
		if users[i].Name == name {
			return &users[i]
		}
	}
	return nil
}

// followRedirect follows a redirect and returns the response
func (ts *webTestServer) followRedirect(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	ts.t.Helper()
	location := rr.Header().Get("Location")
	require.NotEmpty(ts.t, location, "Expected Location header for redirect")
	return ts.get(location)
}

// Assertion helpers

// assertContainsElement asserts that the document contains an element matching the selector
func assertContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
	}
}

// assertNotContainsElement asserts that the document does not contain an element matching the selector
func assertNotContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() > 0 {
		t.Errorf("Expected NOT to find element matching %q, but found %d", selector, doc.Find(selector).Length())
	}
}

// assertContainsText asserts that the element matching the selector contains the text
func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	el := doc.Find(selector)
	if el.Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
		return
	}
	if !strings.Contains(el.Text(), text) {
		t.Errorf("Expected element %q to contain %q, but got %q", selector, text, el.Text())
	}
}
