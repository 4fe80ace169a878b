// Package atlas holds the story/interaction domain model: stories with their
// comment threads, mood check-ins, peer connection requests, and the active
// identity. All values are plain data; mutations live in state.go and always
// return a new State.
package atlas

import "time"

// Identity is the session's anonymous user record. The PIN is kept exactly as
// entered; no credential check happens anywhere — any alias/PIN pair is
// accepted and replaces the active identity.
type Identity struct {
	Alias       string    `json:"alias"`
	PIN         string    `json:"pin"`
	JoinedAt    time.Time `json:"joinedAt"`
	AvatarSeed  string    `json:"avatarSeed,omitempty"`
	AvatarColor string    `json:"avatarColor,omitempty"`
}

type Comment struct {
	ID           string    `json:"id"`
	Author       string    `json:"author"`
	Content      string    `json:"content"`
	Timestamp    time.Time `json:"timestamp"`
	HelpfulCount int       `json:"helpfulCount"`
}

type CopingStrategy struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"` // CBT, Grounding or Mindfulness
}

type StoryAnalysis struct {
	EmotionalTone    []string         `json:"emotionalTone"`
	Summary          string           `json:"summary"`
	CopingStrategies []CopingStrategy `json:"copingStrategies"`
	CulturalNuance   string           `json:"culturalNuance,omitempty"`
	IsCrisis         bool             `json:"isCrisis"`
}

// Story is a shared narrative with its comment thread. Comments keep
// insertion order; the feed sorts stories newest-first by Timestamp.
// Counters are plain ints starting at zero — there is no "absent" state.
type Story struct {
	ID                  string         `json:"id"`
	Content             string         `json:"content"`
	Author              string         `json:"author"`
	AuthorAvatarSeed    string         `json:"authorAvatarSeed,omitempty"`
	AuthorAvatarColor   string         `json:"authorAvatarColor,omitempty"`
	Timestamp           time.Time      `json:"timestamp"`
	Tags                []string       `json:"tags"`
	Analysis            *StoryAnalysis `json:"analysis,omitempty"`
	Comments            []Comment      `json:"comments"`
	SimilarFeelingCount int            `json:"similarFeelingCount"`
	UpliftCount         int            `json:"upliftCount"`
}

type MoodEntry struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Label     string    `json:"label"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// Connection request lifecycle. PENDING is the only non-terminal status.
const (
	ConnectionPending   = "PENDING"
	ConnectionConnected = "CONNECTED"
	ConnectionDeclined  = "DECLINED"
)

// ConnectionRequest is an anonymous peer "bridge" request tied to a story.
// The model does not de-duplicate: sending twice yields two PENDING requests.
type ConnectionRequest struct {
	ID            string    `json:"id"`
	SenderAlias   string    `json:"senderAlias"`
	ReceiverAlias string    `json:"receiverAlias"`
	StoryID       string    `json:"storyId"`
	InitialNote   string    `json:"initialNote"`
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
}

// State is the whole application state owned by the session controller.
// Stories and connections live only for the process lifetime; identity and
// the mood log are additionally snapshotted to the key-value store.
type State struct {
	Identity      *Identity
	Stories       []Story
	Moods         []MoodEntry
	Connections   []ConnectionRequest
	CrisisVisible bool
}
