package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

const videoJSON = `{
	"youtube_id": "dQw4w9WgXcQ",
	"title": "Never Gonna Give You Up",
	"media_url": "/media/UC123/dQw4w9WgXcQ.mp4",
	"channel": {"channel_name": "Rick Astley"},
	"player": {"watched": false, "position": 120.5, "duration": 212},
	"subtitles": [
		{"lang": "en", "name": "English", "media_url": "/media/UC123/dQw4w9WgXcQ.en.vtt"}
	],
	"sponsorblock": {
		"is_enabled": true,
		"segments": [
			{"UUID": "seg-b", "segment": [120.0, 150.0]},
			{"UUID": "seg-a", "segment": [30.0, 45.0]}
		]
	}
}`

func TestVideoParsesPayload(t *testing.T) {
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/video/dQw4w9WgXcQ/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(videoJSON))
	}))

	v, err := c.Video(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Video() error: %v", err)
	}

	if v.ID != "dQw4w9WgXcQ" || v.Title != "Never Gonna Give You Up" {
		t.Errorf("identity = %q / %q", v.ID, v.Title)
	}
	if v.Channel != "Rick Astley" {
		t.Errorf("channel = %q", v.Channel)
	}
	if v.Position != 120.5 || v.Duration != 212 || v.Watched {
		t.Errorf("player state = %+v", v)
	}
	if v.MediaURL != srv.URL+"/media/UC123/dQw4w9WgXcQ.mp4" {
		t.Errorf("media URL = %q", v.MediaURL)
	}
	if len(v.Subtitles) != 1 || v.Subtitles[0].Language != "en" {
		t.Errorf("subtitles = %+v", v.Subtitles)
	}

	// Sponsor segments come back ordered by start time.
	if len(v.Sponsors) != 2 {
		t.Fatalf("got %d sponsor segments, want 2", len(v.Sponsors))
	}
	if v.Sponsors[0].ID != "seg-a" || v.Sponsors[0].From != 30 || v.Sponsors[0].To != 45 {
		t.Errorf("first segment = %+v", v.Sponsors[0])
	}
	if v.Sponsors[1].ID != "seg-b" {
		t.Errorf("second segment = %+v", v.Sponsors[1])
	}
}

func TestVideoSponsorblockDisabled(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"youtube_id": "dQw4w9WgXcQ", "title": "t", "media_url": "/m.mp4",
			"sponsorblock": {"is_enabled": false, "segments": [{"UUID": "x", "segment": [1, 2]}]}
		}`))
	}))

	v, err := c.Video(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Video() error: %v", err)
	}
	if len(v.Sponsors) != 0 {
		t.Errorf("segments kept despite sponsorblock disabled: %+v", v.Sponsors)
	}
}

func TestVideoRejectsBadID(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request issued for an invalid ID")
	}))

	if _, err := c.Video(context.Background(), "../../admin"); err == nil {
		t.Error("expected validation error")
	}
}

func TestSaveProgress(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/video/dQw4w9WgXcQ/progress/" || r.Method != http.MethodPost {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var body map[string]float64
		json.NewDecoder(r.Body).Decode(&body)
		if body["position"] != 10.05 {
			t.Errorf("position = %v", body["position"])
		}
		w.Write([]byte(`{"youtube_id": "dQw4w9WgXcQ", "position": 10.05, "watched": true}`))
	}))

	watched, err := c.SaveProgress(context.Background(), "dQw4w9WgXcQ", 10.05)
	if err != nil {
		t.Fatalf("SaveProgress() error: %v", err)
	}
	if !watched {
		t.Error("watched verdict not forwarded")
	}
}

func TestSaveProgressToleratesEmptyBody(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	watched, err := c.SaveProgress(context.Background(), "dQw4w9WgXcQ", 20)
	if err != nil {
		t.Fatalf("SaveProgress() error: %v", err)
	}
	if watched {
		t.Error("watched true without a verdict body")
	}
}

func TestClearProgress(t *testing.T) {
	called := false
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := c.ClearProgress(context.Background(), "dQw4w9WgXcQ"); err != nil {
		t.Fatalf("ClearProgress() error: %v", err)
	}
	if !called {
		t.Error("no request issued")
	}
}

func TestSetWatched(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/watched/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body struct {
			ID        string `json:"id"`
			IsWatched bool   `json:"is_watched"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.ID != "dQw4w9WgXcQ" || !body.IsWatched {
			t.Errorf("body = %+v", body)
		}
		w.Write([]byte(`{}`))
	}))

	if err := c.SetWatched(context.Background(), "dQw4w9WgXcQ", true); err != nil {
		t.Fatalf("SetWatched() error: %v", err)
	}
}
