package web_test

import (
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/playtracker/internal/model"
)

func TestProfileRequiresLogin(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/profile")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
}

func TestProfileShowsUser(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAsPlayer("alice")

	rr := ts.get("/profile")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "#profile-name", "alice")
	assertContainsText(t, doc, "#profile-email", "alice@example.com")
	assertContainsText(t, doc, "#profile-antiquity", ts.app.MockClock.Now().Format("2006-01-02"))
	assertContainsText(t, doc, "#profile-ranking", "0")

	// No plays yet: both shares are zero
	assertContainsText(t, doc, "#tetris-count", "0")
	assertContainsText(t, doc, "#cod-count", "0")
	assertContainsText(t, doc, "#tetris-percentage", "0.0%")
	assertContainsText(t, doc, "#cod-percentage", "0.0%")

	assertContainsElement(t, doc, "form[action='/game_played/tetris']")
	assertContainsElement(t, doc, "form[action='/game_played/cod']")
}

func TestGamePlayedIncrementsCounter(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAsPlayer("alice")

	rr := ts.post("/game_played/tetris", nil)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/profile", rr.Header().Get("Location"))

	user := ts.userByName("alice")
	require.NotNil(t, user)
	assert.Equal(t, 1, user.TetrisCount)
	assert.Equal(t, 0, user.CodCount)
}

func TestProfilePercentages(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAsPlayer("alice")

	for range 3 {
		ts.post("/game_played/tetris", nil)
	}
	ts.post("/game_played/cod", nil)

	doc := parseHTML(ts.get("/profile").Body)
	assertContainsText(t, doc, "#tetris-count", "3")
	assertContainsText(t, doc, "#cod-count", "1")
	assertContainsText(t, doc, "#tetris-percentage", "75.0%")
	assertContainsText(t, doc, "#cod-percentage", "25.0%")
}

func TestProfilePercentagesSumToHundred(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAsPlayer("alice")

	ts.post("/game_played/tetris", nil)
	ts.post("/game_played/cod", nil)
	ts.post("/game_played/cod", nil)

	doc := parseHTML(ts.get("/profile").Body)
	parse := func(sel string) float64 {
		v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(doc.Find(sel).Text()), "%"), 64)
		require.NoError(t, err)
		return v
	}
	assert.InDelta(t, 100.0, parse("#tetris-percentage")+parse("#cod-percentage"), 0.11)
}

func TestGamePlayedUnknownGame(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAsPlayer("alice")

	rr := ts.post("/game_played/chess", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Unknown game.")

	user := ts.userByName("alice")
	assert.Equal(t, 0, user.TetrisCount)
	assert.Equal(t, 0, user.CodCount)
}

func TestGamePlayedNotLoggedIn(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.post("/game_played/tetris", nil)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
}

func TestGamePlayedAfterAccountDeleted(t *testing.T) {
	ts := newWebTestServer(t)
	user := ts.loginAsPlayer("alice")
	require.NoError(t, ts.app.AccountService.Delete(t.Context(), user.ID))

	rr := ts.post("/game_played/tetris", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "User not authenticated.")
}

func TestProfileAfterAccountDeleted(t *testing.T) {
	ts := newWebTestServer(t)
	user := ts.loginAsPlayer("alice")
	require.NoError(t, ts.app.AccountService.Delete(t.Context(), user.ID))

	rr := ts.get("/profile")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
	assert.False(t, ts.cookies.hasSession())
}

func TestSessionExpires(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAsPlayer("alice")

	ts.app.MockClock.Advance(ts.app.AuthService.SessionDuration())

	rr := ts.get("/profile")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
}

func TestProfileShowsPlaysOfOwnUserOnly(t *testing.T) {
	ts := newWebTestServer(t)
	other := ts.loginAsPlayer("bob")
	require.NoError(t, ts.app.AccountService.RecordPlay(t.Context(), other.ID, model.GameCod))

	ts.logoutLocally()
	ts.loginAsPlayer("alice")

	doc := parseHTML(ts.get("/profile").Body)
	assertContainsText(t, doc, "#profile-name", "alice")
	assertContainsText(t, doc, "#cod-count", "0")
}
