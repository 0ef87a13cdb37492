// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/finplay/internal/models"
)

// ============================================================================
// Constructor Tests
// ============================================================================

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantURL string
		wantErr bool
	}{
		{name: "basic URL", url: "http://localhost:8096", wantURL: "http://localhost:8096"},
		{name: "trailing slash", url: "http://localhost:8096/", wantURL: "http://localhost:8096"},
		{name: "no scheme", url: "media.local:8096", wantURL: "http://media.local:8096"},
		{name: "sub path", url: "https://example.com/jellyfin/", wantURL: "https://example.com/jellyfin"},
		{name: "empty", url: "", wantErr: true},
		{name: "bad scheme", url: "ftp://example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(testOptions(tt.url), nil)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			checkNoError(t, err)
			checkStringEqual(t, "ServerURL", c.ServerURL(), tt.wantURL)
		})
	}
}

func TestNewAccountOverridesServer(t *testing.T) {
	acc := testAccount("http://from-account:8096")
	c, err := New(testOptions("http://from-options:8096"), acc)
	checkNoError(t, err)
	checkStringEqual(t, "ServerURL", c.ServerURL(), "http://from-account:8096")
	if c.Account() != acc {
		t.Error("Account() should return the account passed to New")
	}
}

func TestAuthorizationHeader(t *testing.T) {
	got := AuthorizationHeader("Finplay", "testhost", "device-1", "1.0.0", "")
	checkStringEqual(t, "no token", got,
		`MediaBrowser Client="Finplay", Device="testhost", DeviceId="device-1", Version="1.0.0"`)

	got = AuthorizationHeader("Finplay", "testhost", "device-1", "1.0.0", "abc")
	checkStringEqual(t, "with token", got,
		`MediaBrowser Client="Finplay", Device="testhost", DeviceId="device-1", Version="1.0.0", Token="abc"`)

	got = AuthorizationHeader("Finplay", "My Laptop", "d", "1", "")
	checkStringEqual(t, "escaped device", got,
		`MediaBrowser Client="Finplay", Device="My%20Laptop", DeviceId="d", Version="1"`)
}

// ============================================================================
// Authentication Tests
// ============================================================================

func TestAuthenticateByName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		checkStringEqual(t, "method", r.Method, http.MethodPost)
		checkStringEqual(t, "path", r.URL.Path, "/Users/AuthenticateByName")
		checkStringEqual(t, "authorization", r.Header.Get("Authorization"),
			`MediaBrowser Client="Finplay", Device="testhost", DeviceId="device-1", Version="1.0.0"`)

		var body models.AuthenticateByNameRequest
		data, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(data, &body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		checkStringEqual(t, "Username", body.Username, "alice")
		checkStringEqual(t, "Pw", body.Pw, "secret")

		writeJSON(w, `{"User":{"Id":"user-1","Name":"Alice","ServerId":"srv"},"AccessToken":"tok","ServerId":"srv"}`)
	}))
	defer server.Close()

	c, err := New(testOptions(server.URL), nil)
	checkNoError(t, err)

	acc, err := c.AuthenticateByName(context.Background(), "alice", "secret")
	checkNoError(t, err)
	checkStringEqual(t, "UserID", acc.UserID, "user-1")
	checkStringEqual(t, "UserName", acc.UserName, "Alice")
	checkStringEqual(t, "AccessToken", acc.AccessToken, "tok")
	checkStringEqual(t, "ServerID", acc.ServerID, "srv")
	checkStringEqual(t, "DeviceID", acc.DeviceID, testDeviceID)
	checkStringEqual(t, "ServerURL", acc.ServerURL, server.URL)
	checkTrue(t, "CreatedAt set", !acc.CreatedAt.IsZero())
}

func TestAuthenticateByNameWrongCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c, err := New(testOptions(server.URL), nil)
	checkNoError(t, err)

	_, err = c.AuthenticateByName(context.Background(), "alice", "wrong")
	checkErrorIs(t, err, ErrAuth)
	checkIntEqual(t, "status", StatusCode(err), http.StatusUnauthorized)
}

func TestAuthenticateByNameMissingToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"User":{"Id":"user-1"}}`)
	}))
	defer server.Close()

	c, err := New(testOptions(server.URL), nil)
	checkNoError(t, err)

	_, err = c.AuthenticateByName(context.Background(), "alice", "pw")
	checkErrorIs(t, err, ErrMissingField)
}

// ============================================================================
// Item Listing Tests
// ============================================================================

func TestResumeRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		checkStringEqual(t, "path", r.URL.Path, "/Users/user-1/Items/Resume")
		checkStringEqual(t, "query", r.URL.RawQuery,
			"ParentId=series-1&Limit=1&MediaTypes=Video&Fields=Overview%2CPrimaryImageAspectRatio")
		checkStringEqual(t, "authorization", r.Header.Get("Authorization"),
			`MediaBrowser Client="Finplay", Device="testhost", DeviceId="device-1", Version="1.0.0", Token="test-token"`)
		writeJSON(w, `{"Items":[{"Id":"ep-3","Name":"Three","Type":"Episode"}],"TotalRecordCount":1}`)
	})

	page, err := c.Resume(context.Background(), "series-1", 1)
	checkNoError(t, err)
	checkIntEqual(t, "items", len(page.Items), 1)
	checkStringEqual(t, "id", page.Items[0].ID, "ep-3")
	checkStringEqual(t, "type", string(page.Items[0].Type), "Episode")
}

func TestNextUpRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		checkStringEqual(t, "path", r.URL.Path, "/Shows/NextUp")
		checkStringEqual(t, "UserId", r.URL.Query().Get("UserId"), testUserID)
		checkStringEqual(t, "SeriesId", r.URL.Query().Get("SeriesId"), "series-1")
		checkStringEqual(t, "Limit", r.URL.Query().Get("Limit"), "1")
		writeJSON(w, `{"Items":[],"TotalRecordCount":0}`)
	})

	page, err := c.NextUp(context.Background(), "series-1", 1)
	checkNoError(t, err)
	checkIntEqual(t, "items", len(page.Items), 0)
}

func TestEpisodesRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		checkStringEqual(t, "path", r.URL.Path, "/Shows/series-1/Episodes")
		checkStringEqual(t, "SeasonId", r.URL.Query().Get("SeasonId"), "")
		writeJSON(w, `{"Items":[{"Id":"ep-1","Type":"Episode","IndexNumber":1},{"Id":"ep-2","Type":"Episode","IndexNumber":2}],"TotalRecordCount":2}`)
	})

	page, err := c.Episodes(context.Background(), "series-1", "")
	checkNoError(t, err)
	checkIntEqual(t, "items", len(page.Items), 2)
	checkIntEqual(t, "first index", page.Items[0].EpisodeIndex(), 1)
}

func TestItemsQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		checkStringEqual(t, "path", r.URL.Path, "/Users/user-1/Items")
		checkStringEqual(t, "query", r.URL.RawQuery,
			"ParentId=lib-1&StartIndex=50&Limit=25&SortBy=SortName&SortOrder=Ascending&IncludeItemTypes=Movie%2CSeries&Recursive=true&Fields=Overview")
		writeJSON(w, `{"Items":[{"Id":"m1","Type":"Movie"}],"TotalRecordCount":120,"StartIndex":50}`)
	})

	page, err := c.Items(context.Background(), models.ItemQuery{
		ParentID:         "lib-1",
		IncludeItemTypes: []models.ItemKind{models.KindMovie, models.KindSeries},
		Recursive:        true,
		SortBy:           []string{"SortName"},
		SortOrder:        "Ascending",
		Fields:           []string{"Overview"},
		StartIndex:       50,
		Limit:            25,
	})
	checkNoError(t, err)
	checkIntEqual(t, "total", page.TotalRecordCount, 120)
	checkIntEqual(t, "start", page.StartIndex, 50)
}

func TestItemsMissingID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"Items":[{"Id":"ok"},{"Name":"no id"}],"TotalRecordCount":2}`)
	})

	_, err := c.Views(context.Background())
	checkErrorIs(t, err, ErrMissingField)
}

func TestNotSignedIn(t *testing.T) {
	c, err := New(testOptions("http://localhost:8096"), nil)
	checkNoError(t, err)

	_, err = c.Views(context.Background())
	checkErrorIs(t, err, ErrNotSignedIn)
}

// ============================================================================
// Error Mapping Tests
// ============================================================================

func TestStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.Item(context.Background(), "x")
	checkErrorIs(t, err, ErrRequestFailed)

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %T", err)
	}
	checkIntEqual(t, "code", se.Code, http.StatusInternalServerError)
}

func TestDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"Items": [`)
	})

	_, err := c.NextUp(context.Background(), "s", 1)
	checkErrorIs(t, err, ErrDecode)
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	c, err := New(testOptions(url), testAccount(url))
	checkNoError(t, err)

	err = c.Ping(context.Background())
	checkErrorIs(t, err, ErrNetwork)
	if errors.Is(err, ErrTimeout) {
		t.Error("connection refused should not be a timeout")
	}
}

func TestTimeoutError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	opts := testOptions(server.URL)
	opts.Timeout = 50 * time.Millisecond
	c, err := New(opts, testAccount(server.URL))
	checkNoError(t, err)

	err = c.Ping(context.Background())
	checkErrorIs(t, err, ErrTimeout)
	checkErrorIs(t, err, ErrNetwork)
}

// ============================================================================
// Optional Endpoint Tests
// ============================================================================

func TestOptionalEndpointsAbsent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	})
	ctx := context.Background()

	intro, err := c.IntroTimestamps(ctx, "ep-1")
	checkNoError(t, err)
	checkTrue(t, "intro absent", intro == nil)

	manifest, err := c.TrickplayManifest(ctx, "ep-1")
	checkNoError(t, err)
	checkTrue(t, "manifest absent", manifest == nil)

	bif, err := c.TrickplayBIF(ctx, "ep-1", 320)
	checkNoError(t, err)
	checkTrue(t, "bif absent", bif == nil)
}

func TestIntroTimestamps(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		checkStringEqual(t, "path", r.URL.Path, "/Episode/ep-1/IntroTimestamps")
		writeJSON(w, `{"EpisodeId":"ep-1","Valid":true,"IntroStart":5,"IntroEnd":65,"ShowSkipPromptAt":3,"HideSkipPromptAt":13}`)
	})

	intro, err := c.IntroTimestamps(context.Background(), "ep-1")
	checkNoError(t, err)
	checkTrue(t, "valid", intro.Valid)
	checkTrue(t, "prompt at 4s", intro.PromptVisible(4))
}

func TestTrickplayBIF(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		checkStringEqual(t, "path", r.URL.Path, "/Trickplay/ep-1/320/GetBIF")
		_, _ = w.Write([]byte{0x89, 'B', 'I', 'F'})
	})

	data, err := c.TrickplayBIF(context.Background(), "ep-1", 320)
	checkNoError(t, err)
	checkIntEqual(t, "len", len(data), 4)
}

// ============================================================================
// Playstate Tests
// ============================================================================

func TestReportPlayback(t *testing.T) {
	tests := []struct {
		event    models.PlaybackEvent
		wantPath string
	}{
		{models.PlaybackStarted, "/Sessions/Playing"},
		{models.PlaybackProgress, "/Sessions/Playing/Progress"},
		{models.PlaybackStopped, "/Sessions/Playing/Stopped"},
	}

	for _, tt := range tests {
		t.Run(string(tt.event), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				checkStringEqual(t, "method", r.Method, http.MethodPost)
				checkStringEqual(t, "path", r.URL.Path, tt.wantPath)
				checkStringEqual(t, "content type", r.Header.Get("Content-Type"), "application/json")

				var body map[string]any
				data, _ := io.ReadAll(r.Body)
				if err := json.Unmarshal(data, &body); err != nil {
					t.Errorf("decode body: %v", err)
				}
				checkStringEqual(t, "ItemId", body["ItemId"].(string), "ep-1")
				if body["PositionTicks"].(float64) != 420_000_000 {
					t.Errorf("PositionTicks = %v", body["PositionTicks"])
				}
				if _, ok := body["Event"]; ok {
					t.Error("Event must not be serialized")
				}
				w.WriteHeader(http.StatusNoContent)
			})

			err := c.ReportPlayback(context.Background(), &models.PlaybackProgressReport{
				Event:         tt.event,
				ItemID:        "ep-1",
				PositionTicks: 420_000_000,
				EventName:     models.EventNameTimeUpdate,
			})
			checkNoError(t, err)
		})
	}
}

func TestReportPlaybackUnknownEvent(t *testing.T) {
	c, err := New(testOptions("http://localhost:8096"), testAccount("http://localhost:8096"))
	checkNoError(t, err)

	err = c.ReportPlayback(context.Background(), &models.PlaybackProgressReport{Event: "paused", ItemID: "x"})
	if err == nil {
		t.Fatal("expected error for unknown event")
	}
}

// ============================================================================
// URL Builder Tests
// ============================================================================

func TestStreamURL(t *testing.T) {
	c, err := New(testOptions("http://media.local:8096"), testAccount("http://media.local:8096"))
	checkNoError(t, err)

	got := c.StreamURL("ep-1", StreamOptions{PlaySessionID: "ps-1"})
	checkStringEqual(t, "stream URL", got,
		"http://media.local:8096/Videos/ep-1/stream?static=true&MediaSourceId=ep-1&DeviceId=device-1&PlaySessionId=ps-1&api_key=test-token")
}

func TestWebSocketURL(t *testing.T) {
	c, err := New(testOptions("https://media.example.com/jf"), testAccount("https://media.example.com/jf"))
	checkNoError(t, err)

	got, err := c.WebSocketURL()
	checkNoError(t, err)
	checkStringEqual(t, "ws URL", got, "wss://media.example.com/jf/socket?api_key=test-token&deviceId=device-1")
}

func TestFetchURLRejectsOtherHost(t *testing.T) {
	c, err := New(testOptions("http://media.local:8096"), testAccount("http://media.local:8096"))
	checkNoError(t, err)

	_, err = c.FetchURL(context.Background(), "http://evil.example.com/Items/x/Images/Primary")
	if err == nil {
		t.Fatal("expected error for foreign host")
	}
}
