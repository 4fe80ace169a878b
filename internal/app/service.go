package app

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"atlas/api/internal/analysis"
	"atlas/api/internal/atlas"
	"atlas/api/internal/auth"
	"atlas/api/internal/config"
	"atlas/api/internal/feed"
	"atlas/api/internal/sanctuary"
	"atlas/api/internal/search"
	"atlas/api/internal/session"
	"atlas/api/internal/util"
)

type Session struct {
	Token     string
	Alias     string
	JTI       string
	ExpiresAt time.Time
}

type LoginInput struct {
	Alias       string `json:"alias"`
	PIN         string `json:"pin"`
	AvatarSeed  string `json:"avatarSeed"`
	AvatarColor string `json:"avatarColor"`
}

type UpdateUserInput struct {
	AvatarSeed  string `json:"avatarSeed"`
	AvatarColor string `json:"avatarColor"`
}

type ShareStoryInput struct {
	Content string `json:"content"`
}

type AddCommentInput struct {
	Content string `json:"content"`
}

type AddMoodInput struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Note  string `json:"note"`
}

type SendConnectionInput struct {
	StoryID       string `json:"storyId"`
	ReceiverAlias string `json:"receiverAlias"`
	Note          string `json:"note"`
}

type UpdateConnectionInput struct {
	Status string `json:"status"`
}

// FeedPage is one page of the filtered feed plus everything the client needs
// to render the filter bar and the load-more control.
type FeedPage struct {
	Stories  []atlas.Story `json:"stories"`
	HasMore  bool          `json:"hasMore"`
	Tones    []string      `json:"tones"`
	Tone     string        `json:"tone"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}

// Hotline is one crisis contact option shown in the notice.
type Hotline struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Dial   string `json:"dial"`
	Action string `json:"action"` // call or text
}

// CrisisNotice is the dismissable banner surfaced after an analysis flags
// possible immediate danger.
type CrisisNotice struct {
	Visible  bool      `json:"visible"`
	Hotlines []Hotline `json:"hotlines"`
}

// analyzer is the external analysis collaborator. Calls may fail; the
// service substitutes fallbacks so posting never fails on the user.
type analyzer interface {
	AnalyzeStory(ctx context.Context, content string) (atlas.StoryAnalysis, error)
	CheckTone(ctx context.Context, content string) (string, error)
}

// snapshotStore persists the identity record and the mood log as whole-value
// snapshots. Stories and connections are never persisted.
type snapshotStore interface {
	SaveIdentity(ctx context.Context, identity atlas.Identity) error
	LoadIdentity(ctx context.Context) (*atlas.Identity, error)
	ClearIdentity(ctx context.Context) error
	SaveMoodLog(ctx context.Context, entries []atlas.MoodEntry) error
	LoadMoodLog(ctx context.Context) ([]atlas.MoodEntry, error)
	ClearMoodLog(ctx context.Context) error
	Ping(ctx context.Context) error
}

// Service owns the application state and exposes every mutation the client
// can perform. All state access goes through mu; the only slow work — the
// analysis call — happens outside the lock, so when rapid edits race the
// last call to resolve overwrites.
type Service struct {
	cfg       config.Config
	analyzer  analyzer
	snapshots snapshotStore
	search    *search.Service
	sanctuary *sanctuary.Service

	mu    sync.Mutex
	state atlas.State
}

// New creates the service. analyzer and snapshots may be nil: without an
// analyzer every post gets the fallback analysis, and without snapshots the
// identity and mood log live only in memory.
func New(cfg config.Config, gemini *analysis.Client, snapshots *session.RedisStore, searchSvc *search.Service, sanctuarySvc *sanctuary.Service) *Service {
	s := &Service{
		cfg:       cfg,
		search:    searchSvc,
		sanctuary: sanctuarySvc,
	}
	// Guard the assignments so a nil pointer stays a nil interface.
	if gemini != nil {
		s.analyzer = gemini
	}
	if snapshots != nil {
		s.snapshots = snapshots
	}
	return s
}

// Bootstrap seeds the starter feed, restores the persisted identity and mood
// log, and pushes the seed stories into the search index.
func (s *Service) Bootstrap(ctx context.Context) error {
	state := atlas.State{Stories: atlas.SeedStories(time.Now())}

	if s.snapshots != nil {
		identity, err := s.snapshots.LoadIdentity(ctx)
		if err != nil {
			return err
		}
		state.Identity = identity
		moods, err := s.snapshots.LoadMoodLog(ctx)
		if err != nil {
			return err
		}
		state.Moods = moods
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	records := make([]search.StoryRecord, 0, len(state.Stories))
	for _, story := range state.Stories {
		records = append(records, storyRecord(story))
	}
	s.search.ReindexAll(records)
	return nil
}

// Login replaces the active identity unconditionally. No credential check:
// any alias/PIN pair is accepted. The persisted mood log is restored so a
// returning user keeps their check-in history.
func (s *Service) Login(ctx context.Context, input LoginInput) (Session, atlas.Identity, error) {
	alias := strings.TrimSpace(input.Alias)
	if alias == "" {
		return Session{}, atlas.Identity{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "alias is required", nil)
	}

	identity := atlas.Identity{
		Alias:       alias,
		PIN:         input.PIN,
		JoinedAt:    time.Now(),
		AvatarSeed:  input.AvatarSeed,
		AvatarColor: input.AvatarColor,
	}

	var moods []atlas.MoodEntry
	if s.snapshots != nil {
		if err := s.snapshots.SaveIdentity(ctx, identity); err != nil {
			log.Printf("app: save identity snapshot: %v", err)
		}
		restored, err := s.snapshots.LoadMoodLog(ctx)
		if err != nil {
			log.Printf("app: restore mood log: %v", err)
		} else {
			moods = restored
		}
	}

	s.mu.Lock()
	s.state = s.state.SetIdentity(identity)
	if moods != nil {
		next := s.state
		next.Moods = moods
		s.state = next
	}
	s.mu.Unlock()

	return s.issueSession(identity)
}

func (s *Service) issueSession(identity atlas.Identity) (Session, atlas.Identity, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.AccessTTL)
	jti := util.NewID("jti")

	token, err := auth.IssueToken([]byte(s.cfg.TokenSecret), auth.Claims{
		Alias: identity.Alias,
		JTI:   jti,
		Exp:   expiresAt.Unix(),
	})
	if err != nil {
		return Session{}, atlas.Identity{}, err
	}
	return Session{Token: token, Alias: identity.Alias, JTI: jti, ExpiresAt: expiresAt}, identity, nil
}

// SessionFromToken verifies a bearer token.
func (s *Service) SessionFromToken(token string) (Session, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.TokenSecret), token)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, Alias: claims.Alias, JTI: claims.JTI, ExpiresAt: time.Unix(claims.Exp, 0)}, nil
}

// Logout clears the identity and mood log from memory and the snapshot
// store. Stories and connections survive; they were never persisted.
func (s *Service) Logout(ctx context.Context) {
	s.mu.Lock()
	s.state = s.state.ClearSession()
	s.mu.Unlock()

	if s.snapshots != nil {
		if err := s.snapshots.ClearIdentity(ctx); err != nil {
			log.Printf("app: clear identity snapshot: %v", err)
		}
		if err := s.snapshots.ClearMoodLog(ctx); err != nil {
			log.Printf("app: clear mood log snapshot: %v", err)
		}
	}
}

// CurrentUser returns the active identity, or nil.
func (s *Service) CurrentUser() *atlas.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Identity == nil {
		return nil
	}
	identity := *s.state.Identity
	return &identity
}

// UpdateUser merges non-empty avatar fields onto the active identity and
// persists the result.
func (s *Service) UpdateUser(ctx context.Context, input UpdateUserInput) (atlas.Identity, error) {
	s.mu.Lock()
	if s.state.Identity == nil {
		s.mu.Unlock()
		return atlas.Identity{}, errNoIdentity()
	}
	s.state = s.state.MergeIdentity(input.AvatarSeed, input.AvatarColor)
	identity := *s.state.Identity
	s.mu.Unlock()

	if s.snapshots != nil {
		if err := s.snapshots.SaveIdentity(ctx, identity); err != nil {
			log.Printf("app: save identity snapshot: %v", err)
		}
	}
	return identity, nil
}

// analyze runs the external analysis, substituting the fixed fallback on any
// failure. The fallible step stays isolated here; callers always get a
// usable analysis.
func (s *Service) analyze(ctx context.Context, content string) atlas.StoryAnalysis {
	if s.analyzer == nil {
		return analysis.Fallback()
	}
	result, err := s.analyzer.AnalyzeStory(ctx, content)
	if err != nil {
		log.Printf("app: analysis failed, using fallback: %v", err)
		return analysis.Fallback()
	}
	return result
}

// ShareStory posts a new story. The analysis call runs first, outside the
// lock; the story becomes visible only once it resolves (or falls back).
// A crisis flag on the result raises the crisis notice.
func (s *Service) ShareStory(ctx context.Context, content string) (atlas.Story, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return atlas.Story{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "content is required", nil)
	}

	s.mu.Lock()
	identity := s.state.Identity
	s.mu.Unlock()
	if identity == nil {
		return atlas.Story{}, errNoIdentity()
	}

	result := s.analyze(ctx, content)

	story := atlas.Story{
		ID:                  util.NewID("sty"),
		Content:             content,
		Author:              identity.Alias,
		AuthorAvatarSeed:    identity.AvatarSeed,
		AuthorAvatarColor:   identity.AvatarColor,
		Timestamp:           time.Now(),
		Tags:                []string{},
		Analysis:            &result,
		Comments:            []atlas.Comment{},
		SimilarFeelingCount: 1,
	}

	s.mu.Lock()
	s.state = s.state.PrependStory(story)
	if result.IsCrisis {
		s.state = s.state.ShowCrisis()
	}
	s.mu.Unlock()

	s.search.IndexStory(storyRecord(story))
	return story, nil
}

// EditStory re-analyzes the new content and replaces the story's content and
// analysis together. Unknown ids are a silent no-op. When rapid edits race,
// whichever analysis resolves last takes the lock last and wins.
func (s *Service) EditStory(ctx context.Context, storyID, content string) (atlas.Story, bool, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return atlas.Story{}, false, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "content is required", nil)
	}

	s.mu.Lock()
	_, exists := s.state.FindStory(storyID)
	s.mu.Unlock()
	if !exists {
		return atlas.Story{}, false, nil
	}

	result := s.analyze(ctx, content)

	s.mu.Lock()
	s.state = s.state.ReviseStory(storyID, content, &result)
	if result.IsCrisis {
		s.state = s.state.ShowCrisis()
	}
	story, found := s.state.FindStory(storyID)
	s.mu.Unlock()

	if found {
		s.search.IndexStory(storyRecord(story))
	}
	return story, found, nil
}

// AddComment appends a comment authored by the active identity.
func (s *Service) AddComment(ctx context.Context, storyID string, input AddCommentInput) (atlas.Comment, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return atlas.Comment{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "content is required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Identity == nil {
		return atlas.Comment{}, errNoIdentity()
	}

	comment := atlas.Comment{
		ID:        util.NewID("cmt"),
		Author:    s.state.Identity.Alias,
		Content:   content,
		Timestamp: time.Now(),
	}
	s.state = s.state.AddComment(storyID, comment)
	return comment, nil
}

// DeleteComment removes a comment by id. Missing story or comment ids are a
// silent no-op.
func (s *Service) DeleteComment(storyID, commentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.DeleteComment(storyID, commentID)
}

// MarkCommentHelpful bumps one comment's helpful counter.
func (s *Service) MarkCommentHelpful(storyID, commentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.MarkCommentHelpful(storyID, commentID)
}

// UpliftStory bumps the uplift counter. No identity requirement and no
// de-duplication. Returns the story so the client can show the new count.
func (s *Service) UpliftStory(storyID string) (atlas.Story, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.UpliftStory(storyID)
	return s.state.FindStory(storyID)
}

// AddMood prepends a check-in and persists the whole log.
func (s *Service) AddMood(ctx context.Context, input AddMoodInput) (atlas.MoodEntry, error) {
	moodType := strings.TrimSpace(input.Type)
	if moodType == "" {
		return atlas.MoodEntry{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "type is required", nil)
	}
	label := strings.TrimSpace(input.Label)
	if label == "" {
		for _, known := range atlas.MoodTypes() {
			if known.Type == moodType {
				label = known.Label
				break
			}
		}
	}

	entry := atlas.MoodEntry{
		ID:        util.NewID("mood"),
		Type:      moodType,
		Label:     label,
		Timestamp: time.Now(),
		Note:      strings.TrimSpace(input.Note),
	}

	s.mu.Lock()
	s.state = s.state.AddMood(entry)
	moods := s.state.Moods
	s.mu.Unlock()

	if s.snapshots != nil {
		if err := s.snapshots.SaveMoodLog(ctx, moods); err != nil {
			log.Printf("app: save mood log snapshot: %v", err)
		}
	}
	return entry, nil
}

// MoodLog returns the check-in history, newest first.
func (s *Service) MoodLog() []atlas.MoodEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Moods == nil {
		return []atlas.MoodEntry{}
	}
	return s.state.Moods
}

// SendConnectionRequest appends a PENDING bridge request from the active
// identity. The receiver alias is not validated against known authors.
func (s *Service) SendConnectionRequest(ctx context.Context, input SendConnectionInput) (atlas.ConnectionRequest, error) {
	receiver := strings.TrimSpace(input.ReceiverAlias)
	if receiver == "" {
		return atlas.ConnectionRequest{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "receiverAlias is required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Identity == nil {
		return atlas.ConnectionRequest{}, errNoIdentity()
	}

	request := atlas.ConnectionRequest{
		ID:            util.NewID("con"),
		SenderAlias:   s.state.Identity.Alias,
		ReceiverAlias: receiver,
		StoryID:       input.StoryID,
		InitialNote:   strings.TrimSpace(input.Note),
		Status:        atlas.ConnectionPending,
		Timestamp:     time.Now(),
	}
	s.state = s.state.AddConnection(request)
	return request, nil
}

// UpdateConnection settles a PENDING request. CONNECTED and DECLINED are the
// only accepted statuses and both are terminal; unknown or already-settled
// ids are silent no-ops.
func (s *Service) UpdateConnection(requestID, status string) (atlas.ConnectionRequest, bool, error) {
	if status != atlas.ConnectionConnected && status != atlas.ConnectionDeclined {
		return atlas.ConnectionRequest{}, false, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "status must be CONNECTED or DECLINED", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.SettleConnection(requestID, status)
	for _, request := range s.state.Connections {
		if request.ID == requestID {
			return request, true, nil
		}
	}
	return atlas.ConnectionRequest{}, false, nil
}

// Connections returns the bridge ledger in insertion order.
func (s *Service) Connections() []atlas.ConnectionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Connections == nil {
		return []atlas.ConnectionRequest{}
	}
	return s.state.Connections
}

// Feed projects the story aggregate: tone filter, then pagination, plus the
// recomputed filter chips.
func (s *Service) Feed(tone string, pages int) FeedPage {
	s.mu.Lock()
	stories := s.state.Stories
	s.mu.Unlock()

	if pages < 1 {
		pages = 1
	}
	filtered := feed.Filter(stories, tone)
	page, hasMore := feed.Page(filtered, pages)
	if page == nil {
		page = []atlas.Story{}
	}
	if tone == "" {
		tone = feed.AllTones
	}
	return FeedPage{
		Stories:  page,
		HasMore:  hasMore,
		Tones:    feed.AvailableTones(stories),
		Tone:     tone,
		Page:     pages,
		PageSize: feed.PageSize,
	}
}

// ToneCheck returns encouraging feedback on a draft. Failures degrade to a
// fixed fallback string; this never touches stored data.
func (s *Service) ToneCheck(ctx context.Context, content string) string {
	if s.analyzer == nil {
		return analysis.ToneFallback
	}
	text, err := s.analyzer.CheckTone(ctx, content)
	if err != nil {
		log.Printf("app: tone check failed, using fallback: %v", err)
		return analysis.ToneFallback
	}
	return text
}

// CrisisNotice reports the crisis banner state. The hotline list is fixed.
func (s *Service) CrisisNotice() CrisisNotice {
	s.mu.Lock()
	visible := s.state.CrisisVisible
	s.mu.Unlock()
	return CrisisNotice{
		Visible: visible,
		Hotlines: []Hotline{
			{Name: "Suicide & Crisis Lifeline", Label: "Call or text 988", Dial: "988", Action: "call"},
			{Name: "Crisis Text Line", Label: "Text HOME to 741741", Dial: "741741", Action: "text"},
		},
	}
}

// DismissCrisis hides the notice. Story and analysis data are untouched, and
// the next crisis-flagged analysis raises it again.
func (s *Service) DismissCrisis() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.DismissCrisis()
}

// Search runs a free-text story search.
func (s *Service) Search(q search.Query) search.Response {
	return s.search.Search(q)
}

// SanctuaryTracks returns the soundscape catalog.
func (s *Service) SanctuaryTracks(ctx context.Context) []sanctuary.Track {
	return s.sanctuary.Tracks(ctx)
}

// SanctuaryCategories returns the distinct track categories.
func (s *Service) SanctuaryCategories() []string {
	return s.sanctuary.Categories()
}

// MoodTypes returns the fixed check-in options.
func (s *Service) MoodTypes() []atlas.MoodType {
	return atlas.MoodTypes()
}

// Ping checks the snapshot store. Without one there is nothing to check.
func (s *Service) Ping(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}
	return s.snapshots.Ping(ctx)
}

func storyRecord(story atlas.Story) search.StoryRecord {
	record := search.StoryRecord{
		ID:      story.ID,
		Author:  story.Author,
		Content: story.Content,
	}
	if story.Analysis != nil {
		record.Summary = story.Analysis.Summary
		record.Tones = story.Analysis.EmotionalTone
	}
	return record
}
