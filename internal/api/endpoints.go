package api

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"remora/internal/httputil"
	"remora/internal/media"
)

// videoPayload mirrors the server's video detail response.
type videoPayload struct {
	YoutubeID string `json:"youtube_id"`
	Title     string `json:"title"`
	MediaURL  string `json:"media_url"`
	Channel   struct {
		ChannelName string `json:"channel_name"`
	} `json:"channel"`
	Player struct {
		Watched  bool    `json:"watched"`
		Position float64 `json:"position"`
		Duration float64 `json:"duration"`
	} `json:"player"`
	Subtitles []struct {
		Lang     string `json:"lang"`
		Name     string `json:"name"`
		MediaURL string `json:"media_url"`
	} `json:"subtitles"`
	Sponsorblock struct {
		IsEnabled bool `json:"is_enabled"`
		Segments  []struct {
			UUID    string    `json:"UUID"`
			Segment []float64 `json:"segment"`
		} `json:"segments"`
	} `json:"sponsorblock"`
}

// Video fetches a video's metadata, player state, and sponsor segments.
func (c *Client) Video(ctx context.Context, id string) (*media.Video, error) {
	if err := httputil.ValidateVideoID(id); err != nil {
		return nil, err
	}

	res, err := c.Get(ctx, "/api/video/"+id+"/")
	if err != nil {
		return nil, fmt.Errorf("fetching video %s: %w", id, err)
	}
	if res.Err != nil {
		return nil, fmt.Errorf("fetching video %s: %s", id, res.Err.Error)
	}
	if res.Status == 404 {
		return nil, fmt.Errorf("video %s not found in the archive", id)
	}

	var payload videoPayload
	if err := json.Unmarshal(res.Data, &payload); err != nil {
		return nil, fmt.Errorf("parsing video %s: %w", id, err)
	}

	v := &media.Video{
		ID:       payload.YoutubeID,
		Title:    payload.Title,
		Channel:  payload.Channel.ChannelName,
		Duration: payload.Player.Duration,
		Position: payload.Player.Position,
		Watched:  payload.Player.Watched,
		MediaURL: c.ResolveURL(payload.MediaURL),
	}

	for _, s := range payload.Subtitles {
		v.Subtitles = append(v.Subtitles, media.Subtitle{
			Language: s.Lang,
			Name:     s.Name,
			URL:      c.ResolveURL(s.MediaURL),
		})
	}

	if payload.Sponsorblock.IsEnabled {
		for _, s := range payload.Sponsorblock.Segments {
			if len(s.Segment) != 2 {
				continue
			}
			v.Sponsors = append(v.Sponsors, media.SponsorSegment{
				From: s.Segment[0],
				To:   s.Segment[1],
				ID:   s.UUID,
			})
		}
		sort.Slice(v.Sponsors, func(i, j int) bool {
			return v.Sponsors[i].From < v.Sponsors[j].From
		})
	}

	return v, nil
}

// SaveProgress persists a playback position and returns the server's
// watched verdict. Satisfies playback.ProgressWriter.
func (c *Client) SaveProgress(ctx context.Context, videoID string, position float64) (bool, error) {
	res, err := c.Post(ctx, "/api/video/"+videoID+"/progress/", map[string]float64{
		"position": position,
	})
	if err != nil {
		return false, err
	}
	if res.Err != nil || len(res.Data) == 0 {
		// Ack without a usable body: the write landed, no verdict.
		return false, nil
	}

	var body struct {
		Watched bool `json:"watched"`
	}
	if err := json.Unmarshal(res.Data, &body); err != nil {
		return false, nil
	}
	return body.Watched, nil
}

// ClearProgress deletes the stored resume position for a video.
func (c *Client) ClearProgress(ctx context.Context, videoID string) error {
	res, err := c.Delete(ctx, "/api/video/"+videoID+"/progress/")
	if err != nil {
		return fmt.Errorf("clearing progress for %s: %w", videoID, err)
	}
	if res.Err != nil {
		return fmt.Errorf("clearing progress for %s: %s", videoID, res.Err.Error)
	}
	return nil
}

// SetWatched flips the explicit watched flag, outside the time-based path.
func (c *Client) SetWatched(ctx context.Context, videoID string, watched bool) error {
	_, err := c.Post(ctx, "/api/watched/", map[string]any{
		"id":         videoID,
		"is_watched": watched,
	})
	if err != nil {
		return fmt.Errorf("setting watched for %s: %w", videoID, err)
	}
	return nil
}
