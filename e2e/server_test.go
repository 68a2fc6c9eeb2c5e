package e2e_test

import (
	"context"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/playtracker/internal/factory"
	"github.com/mcoot/playtracker/internal/services/auth"
	"github.com/mcoot/playtracker/internal/services/bootstrap"
	"github.com/mcoot/playtracker/internal/storage/gormstore"
	"github.com/mcoot/playtracker/internal/testutil"
	"github.com/mcoot/playtracker/internal/web"
)

const adminPassword = "e2e-admin-password"

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// startTestServer runs the full application on a real TCP port
func startTestServer(t *testing.T) string {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	logger := testutil.NopLogger()
	app, err := factory.New(factory.Config{
		Database: gormstore.Config{
			Driver: gormstore.DriverSQLite,
			DSN:    filepath.Join(t.TempDir(), "database", "usuarios.db"),
		},
		AuthConfig:      auth.Config{SecretKey: "e2e-secret", AdminPassword: adminPassword},
		BootstrapConfig: bootstrap.Config{AdminPassword: adminPassword},
		Logger:          logger,
	})
	require.NoError(t, err)
	require.NoError(t, app.Bootstrap.Run(context.Background()))
	require.NoError(t, app.Sweeper.Start())

	router := web.NewRouter(web.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		AccountService: app.AccountService,
		StaticDir:      filepath.Join(findProjectRoot(t), "internal/web/static"),
	})

	serverCfg := web.DefaultServerConfig()
	serverCfg.Host = "127.0.0.1"
	serverCfg.Port = port
	server := web.NewServer(router, serverCfg, logger)

	go func() { _ = server.Start() }()

	t.Cleanup(func() {
		_ = server.Shutdown(context.Background())
		_ = app.Close()
	})

	baseURL := "http://" + server.Addr()
	waitForServer(t, baseURL+"/")
	return baseURL
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatalf("server at %s did not become ready", url)
}

// browser is an HTTP client that keeps cookies and follows redirects
type browser struct {
	t       *testing.T
	baseURL string
	client  *http.Client
}

func newBrowser(t *testing.T, baseURL string) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:       t,
		baseURL: baseURL,
		client:  &http.Client{Jar: jar, Timeout: 5 * time.Second},
	}
}

func (b *browser) get(path string) (*http.Response, *goquery.Document) {
	b.t.Helper()
	resp, err := b.client.Get(b.baseURL + path)
	require.NoError(b.t, err)
	return resp, b.parse(resp)
}

func (b *browser) post(path string, form url.Values) (*http.Response, *goquery.Document) {
	b.t.Helper()
	resp, err := b.client.PostForm(b.baseURL+path, form)
	require.NoError(b.t, err)
	return resp, b.parse(resp)
}

func (b *browser) parse(resp *http.Response) *goquery.Document {
	b.t.Helper()
	defer func() { _ = resp.Body.Close() }()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(b.t, err)
	return doc
}

func TestPlayerJourney(t *testing.T) {
	baseURL := startTestServer(t)
	b := newBrowser(t, baseURL)

	resp, doc := b.post("/signup", url.Values{
		"username":         {"alice"},
		"email":            {"alice@example.com"},
		"password":         {"wonderland"},
		"confirm_password": {"wonderland"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/", resp.Request.URL.Path)
	assert.Equal(t, 1, doc.Find(".flash-success").Length())

	resp, _ = b.post("/login", url.Values{"name": {"alice"}, "password": {"wonderland"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/profile", resp.Request.URL.Path)

	b.post("/game_played/tetris", nil)
	b.post("/game_played/tetris", nil)
	b.post("/game_played/tetris", nil)
	resp, doc = b.post("/game_played/cod", nil)
	require.Equal(t, "/profile", resp.Request.URL.Path)

	assert.Equal(t, "alice", strings.TrimSpace(doc.Find("#profile-name").Text()))
	assert.Equal(t, "3", strings.TrimSpace(doc.Find("#tetris-count").Text()))
	assert.Equal(t, "1", strings.TrimSpace(doc.Find("#cod-count").Text()))
	assert.Equal(t, "75.0%", strings.TrimSpace(doc.Find("#tetris-percentage").Text()))
	assert.Equal(t, "25.0%", strings.TrimSpace(doc.Find("#cod-percentage").Text()))

	resp, _ = b.get("/admin/users")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = b.post("/logout", nil)
	assert.Equal(t, "/", resp.Request.URL.Path)

	resp, _ = b.get("/profile")
	assert.Equal(t, "/login", resp.Request.URL.Path)
}

func TestAdminJourney(t *testing.T) {
	baseURL := startTestServer(t)

	player := newBrowser(t, baseURL)
	player.post("/signup", url.Values{
		"username":         {"bob"},
		"email":            {"bob@example.com"},
		"password":         {"builder"},
		"confirm_password": {"builder"},
	})

	admin := newBrowser(t, baseURL)
	resp, doc := admin.post("/login", url.Values{"name": {"admin"}, "password": {adminPassword}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "/admin/users", resp.Request.URL.Path)

	row := doc.Find("tr[data-user-id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Find("td.name").Text()) == "bob"
	})
	require.Equal(t, 1, row.Length())
	id, ok := row.Attr("data-user-id")
	require.True(t, ok)
	_, err := strconv.Atoi(id)
	require.NoError(t, err)

	admin.post("/admin/users/"+id+"/rank", url.Values{"operation": {"increment"}})
	_, doc = admin.post("/admin/users/"+id+"/rank", url.Values{"operation": {"increment"}})
	ranking := doc.Find(`tr[data-user-id="` + id + `"] td.ranking`).Text()
	assert.Equal(t, "2", strings.TrimSpace(ranking))

	resp, doc = admin.post("/admin/users/"+id+"/delete", nil)
	assert.Equal(t, "/admin/users", resp.Request.URL.Path)
	assert.Equal(t, 0, doc.Find(`tr[data-user-id="`+id+`"]`).Length())

	resp, _ = player.post("/login", url.Values{"name": {"bob"}, "password": {"builder"}})
	assert.Equal(t, "/login", resp.Request.URL.Path)
}
