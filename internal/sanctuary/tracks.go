// Package sanctuary serves the soundscape catalog: a fixed set of audio
// tracks grouped by category. When a MinIO bucket is configured, track URLs
// are presigned GETs against that bucket; otherwise the static URLs ship
// as-is.
package sanctuary

import (
	"context"
	"log"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Track is one entry in the soundscape catalog.
type Track struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Emoji    string `json:"emoji"`
	URL      string `json:"url"`
}

var catalog = []Track{
	{ID: "n1", Title: "Rain on Leaves", Category: "Nature", Emoji: "🌧️", URL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3"},
	{ID: "n2", Title: "Mountain Wind", Category: "Nature", Emoji: "🏔️", URL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-2.mp3"},
	{ID: "a1", Title: "Deep Space Drift", Category: "Ambient", Emoji: "🪐", URL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-3.mp3"},
	{ID: "a2", Title: "Zen Garden", Category: "Ambient", Emoji: "🎍", URL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-4.mp3"},
	{ID: "as1", Title: "Soft Whispers", Category: "ASMR", Emoji: "🎙️", URL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-5.mp3"},
	{ID: "as2", Title: "Crinkling Sounds", Category: "ASMR", Emoji: "📄", URL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-7.mp3"},
	{ID: "g1", Title: "2-Min Grounding", Category: "Guided", Emoji: "🧘", URL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-6.mp3"},
}

// presignTTL is how long a presigned track URL stays valid. Long enough for
// a full listening session, short enough that shared links go stale.
const presignTTL = 4 * time.Hour

// Service hands out the track catalog. client may be nil when no object
// store is configured.
type Service struct {
	client *minio.Client
	bucket string
}

// New creates a sanctuary service without object storage. Tracks keep their
// static URLs.
func New() *Service {
	return &Service{}
}

// NewWithMinio creates a sanctuary service backed by a MinIO bucket holding
// the track audio. If the endpoint is unreachable the static catalog still
// works; presigning only needs a well-formed client.
func NewWithMinio(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*Service, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &Service{client: client, bucket: bucket}, nil
}

// Tracks returns the catalog. With an object store configured, each track's
// URL is replaced by a presigned GET for the object <id>.mp3; a track whose
// presign fails falls back to its static URL.
func (s *Service) Tracks(ctx context.Context) []Track {
	out := make([]Track, len(catalog))
	copy(out, catalog)
	if s.client == nil {
		return out
	}
	for i := range out {
		signed, err := s.client.PresignedGetObject(ctx, s.bucket, out[i].ID+".mp3", presignTTL, url.Values{})
		if err != nil {
			log.Printf("sanctuary: presign %s: %v", out[i].ID, err)
			continue
		}
		out[i].URL = signed.String()
	}
	return out
}

// Categories returns the distinct track categories in catalog order.
func (s *Service) Categories() []string {
	seen := make(map[string]bool)
	out := make([]string, 0, 4)
	for _, track := range catalog {
		if seen[track.Category] {
			continue
		}
		seen[track.Category] = true
		out = append(out, track.Category)
	}
	return out
}
