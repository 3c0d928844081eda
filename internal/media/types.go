// Package media defines shared types for the remora application.
package media

// Video is the archive server's metadata for a single archived video.
type Video struct {
	ID        string  // YouTube video ID (11 characters)
	Title     string  // Display title
	Channel   string  // Channel display name
	Duration  float64 // Total duration in seconds
	Position  float64 // Server-side resume position in seconds
	Watched   bool    // Server-side watched flag
	MediaURL  string  // URL to the archived media file
	Subtitles []Subtitle
	Sponsors  []SponsorSegment
}

// Subtitle represents a subtitle track stored alongside the video.
type Subtitle struct {
	Language string // e.g., "en"
	Name     string // Display label, e.g., "English - auto generated"
	URL      string // URL to the subtitle file (usually VTT)
}

// SponsorSegment is a server-supplied time range to auto-skip during
// playback. The list for a video is ordered by start time and never
// mutated client-side.
type SponsorSegment struct {
	From float64 // Segment start in seconds
	To   float64 // Segment end in seconds
	ID   string  // Segment UUID
}

// ResumeEntry is a row in the local resume cache.
type ResumeEntry struct {
	VideoID  string
	Title    string
	Channel  string
	Position float64 // Last playback position in seconds
	Duration float64 // Total duration in seconds
	Watched  bool
	Updated  int64 // Unix timestamp of the last update
}
