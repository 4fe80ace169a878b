package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"atlas/api/internal/atlas"
	"atlas/api/internal/config"
	"atlas/api/internal/sanctuary"
	"atlas/api/internal/search"
)

type fakeAnalyzer struct {
	result   atlas.StoryAnalysis
	err      error
	tone     string
	toneErr  error
	analyzed int
}

func (f *fakeAnalyzer) AnalyzeStory(ctx context.Context, content string) (atlas.StoryAnalysis, error) {
	f.analyzed++
	if f.err != nil {
		return atlas.StoryAnalysis{}, f.err
	}
	return f.result, nil
}

func (f *fakeAnalyzer) CheckTone(ctx context.Context, content string) (string, error) {
	if f.toneErr != nil {
		return "", f.toneErr
	}
	return f.tone, nil
}

type fakeSnapshots struct {
	identity      *atlas.Identity
	moods         []atlas.MoodEntry
	moodSaves     int
	identitySaves int
	pingErr       error
}

func (f *fakeSnapshots) SaveIdentity(ctx context.Context, identity atlas.Identity) error {
	f.identitySaves++
	f.identity = &identity
	return nil
}

func (f *fakeSnapshots) LoadIdentity(ctx context.Context) (*atlas.Identity, error) {
	return f.identity, nil
}

func (f *fakeSnapshots) ClearIdentity(ctx context.Context) error {
	f.identity = nil
	return nil
}

func (f *fakeSnapshots) SaveMoodLog(ctx context.Context, entries []atlas.MoodEntry) error {
	f.moodSaves++
	f.moods = entries
	return nil
}

func (f *fakeSnapshots) LoadMoodLog(ctx context.Context) ([]atlas.MoodEntry, error) {
	if f.moods == nil {
		return []atlas.MoodEntry{}, nil
	}
	return f.moods, nil
}

func (f *fakeSnapshots) ClearMoodLog(ctx context.Context) error {
	f.moods = nil
	return nil
}

func (f *fakeSnapshots) Ping(ctx context.Context) error { return f.pingErr }

func testConfig() config.Config {
	return config.Config{
		Addr:        ":0",
		TokenSecret: "test-secret",
		AccessTTL:   time.Hour,
		CORSOrigin:  "*",
	}
}

func newTestService(t *testing.T, analyzer analyzer, snapshots snapshotStore) *Service {
	t.Helper()
	svc := &Service{
		cfg:       testConfig(),
		analyzer:  analyzer,
		snapshots: snapshots,
		search:    search.NewService(nil, search.NewMemory()),
		sanctuary: sanctuary.New(),
	}
	if err := svc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return svc
}

func login(t *testing.T, svc *Service, alias, pin string) {
	t.Helper()
	if _, _, err := svc.Login(context.Background(), LoginInput{Alias: alias, PIN: pin}); err != nil {
		t.Fatalf("login %s: %v", alias, err)
	}
}

func TestLoginReplacesIdentity(t *testing.T) {
	svc := newTestService(t, nil, nil)
	login(t, svc, "Nora", "1234")

	user := svc.CurrentUser()
	if user == nil || user.Alias != "Nora" {
		t.Fatalf("current user = %+v, want Nora", user)
	}

	login(t, svc, "Sam", "9999")
	if user := svc.CurrentUser(); user == nil || user.Alias != "Sam" {
		t.Fatalf("second login did not replace identity: %+v", user)
	}
}

func TestLoginRejectsBlankAlias(t *testing.T) {
	svc := newTestService(t, nil, nil)
	_, _, err := svc.Login(context.Background(), LoginInput{Alias: "   "})
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("err = %v, want VALIDATION_ERROR", err)
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	svc := newTestService(t, nil, nil)
	issued, _, err := svc.Login(context.Background(), LoginInput{Alias: "Nora", PIN: "1234"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	parsed, err := svc.SessionFromToken(issued.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if parsed.Alias != "Nora" {
		t.Fatalf("alias = %q, want Nora", parsed.Alias)
	}
}

func TestShareStoryFallsBackWhenAnalysisFails(t *testing.T) {
	svc := newTestService(t, &fakeAnalyzer{err: errors.New("quota exceeded")}, nil)
	login(t, svc, "Nora", "1234")

	story, err := svc.ShareStory(context.Background(), "I feel tired")
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	if story.Analysis == nil {
		t.Fatal("story has no analysis")
	}
	if story.Analysis.Summary != "Your story is valid." {
		t.Fatalf("summary = %q", story.Analysis.Summary)
	}
	if story.Analysis.IsCrisis {
		t.Fatal("fallback must not flag crisis")
	}
	if len(story.Analysis.EmotionalTone) != 1 || story.Analysis.EmotionalTone[0] != "Reflective" {
		t.Fatalf("tone = %v", story.Analysis.EmotionalTone)
	}

	page := svc.Feed("All", 1)
	if len(page.Stories) == 0 || page.Stories[0].ID != story.ID {
		t.Fatal("new story must appear first in the feed")
	}
}

func TestShareStoryRequiresIdentity(t *testing.T) {
	svc := newTestService(t, nil, nil)
	_, err := svc.ShareStory(context.Background(), "hello")
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "NO_ACTIVE_IDENTITY" {
		t.Fatalf("err = %v, want NO_ACTIVE_IDENTITY", err)
	}
}

func TestShareStoryCrisisRaisesNotice(t *testing.T) {
	crisis := atlas.StoryAnalysis{
		EmotionalTone:    []string{"Despairing"},
		Summary:          "You are in a very dark place right now.",
		CopingStrategies: []atlas.CopingStrategy{},
		IsCrisis:         true,
	}
	fake := &fakeAnalyzer{result: crisis}
	svc := newTestService(t, fake, nil)
	login(t, svc, "Nora", "1234")

	if _, err := svc.ShareStory(context.Background(), "I can't see a way out"); err != nil {
		t.Fatalf("share: %v", err)
	}
	notice := svc.CrisisNotice()
	if !notice.Visible {
		t.Fatal("crisis notice should be visible")
	}
	if len(notice.Hotlines) != 2 {
		t.Fatalf("hotlines = %+v", notice.Hotlines)
	}

	svc.DismissCrisis()
	if svc.CrisisNotice().Visible {
		t.Fatal("dismiss did not hide the notice")
	}
	// Dismissing touches nothing else
	page := svc.Feed("All", 1)
	if page.Stories[0].Analysis == nil || !page.Stories[0].Analysis.IsCrisis {
		t.Fatal("dismiss must not alter story analysis data")
	}

	// A calm follow-up post does not re-raise the notice
	fake.result = atlas.StoryAnalysis{EmotionalTone: []string{"Calm"}, Summary: "ok", CopingStrategies: []atlas.CopingStrategy{}}
	if _, err := svc.ShareStory(context.Background(), "Feeling better today"); err != nil {
		t.Fatalf("share: %v", err)
	}
	if svc.CrisisNotice().Visible {
		t.Fatal("non-crisis analysis must not re-raise the notice")
	}
}

func TestEditStoryUnknownIDIsNoop(t *testing.T) {
	fake := &fakeAnalyzer{result: atlas.StoryAnalysis{EmotionalTone: []string{"Calm"}, Summary: "ok"}}
	svc := newTestService(t, fake, nil)
	login(t, svc, "Nora", "1234")

	_, found, err := svc.EditStory(context.Background(), "sty_missing", "new words")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if found {
		t.Fatal("unknown id must be a no-op")
	}
	if fake.analyzed != 0 {
		t.Fatal("no analysis call for a missing story")
	}
}

func TestEditStoryReplacesContentAndAnalysis(t *testing.T) {
	fake := &fakeAnalyzer{result: atlas.StoryAnalysis{
		EmotionalTone:    []string{"Hopeful"},
		Summary:          "A brighter reading.",
		CopingStrategies: []atlas.CopingStrategy{},
	}}
	svc := newTestService(t, fake, nil)
	login(t, svc, "Nora", "1234")

	story, found, err := svc.EditStory(context.Background(), "1", "Things are looking up lately")
	if err != nil || !found {
		t.Fatalf("edit: found=%v err=%v", found, err)
	}
	if story.Content != "Things are looking up lately" {
		t.Fatalf("content = %q", story.Content)
	}
	if story.Analysis.Summary != "A brighter reading." {
		t.Fatalf("analysis not replaced: %+v", story.Analysis)
	}
	// The old analysis fields are gone entirely, not merged
	if story.Analysis.CulturalNuance != "" {
		t.Fatalf("stale analysis field survived: %q", story.Analysis.CulturalNuance)
	}
}

func TestCommentScenario(t *testing.T) {
	svc := newTestService(t, nil, nil)

	login(t, svc, "A", "1111")
	first, err := svc.AddComment(context.Background(), "1", AddCommentInput{Content: "Hi"})
	if err != nil {
		t.Fatalf("comment A: %v", err)
	}
	login(t, svc, "B", "2222")
	if _, err := svc.AddComment(context.Background(), "1", AddCommentInput{Content: "Bye"}); err != nil {
		t.Fatalf("comment B: %v", err)
	}

	story, _ := svc.UpliftStory("1")
	seeded := 3 // story "1" ships with three comments
	comments := story.Comments[seeded:]
	if len(comments) != 2 || comments[0].Content != "Hi" || comments[1].Content != "Bye" {
		t.Fatalf("comments = %+v", comments)
	}

	svc.DeleteComment("1", first.ID)
	story, _ = svc.UpliftStory("1")
	comments = story.Comments[seeded:]
	if len(comments) != 1 || comments[0].Content != "Bye" || comments[0].Author != "B" {
		t.Fatalf("after delete: %+v", comments)
	}
}

func TestAddCommentRequiresIdentity(t *testing.T) {
	svc := newTestService(t, nil, nil)
	_, err := svc.AddComment(context.Background(), "1", AddCommentInput{Content: "hello"})
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "NO_ACTIVE_IDENTITY" {
		t.Fatalf("err = %v, want NO_ACTIVE_IDENTITY", err)
	}
}

func TestUpliftIncrements(t *testing.T) {
	svc := newTestService(t, nil, nil)
	before, found := svc.UpliftStory("3")
	if !found {
		t.Fatal("seed story 3 missing")
	}
	after, _ := svc.UpliftStory("3")
	if after.UpliftCount != before.UpliftCount+1 {
		t.Fatalf("uplift = %d then %d", before.UpliftCount, after.UpliftCount)
	}
}

func TestConnectionLifecycle(t *testing.T) {
	svc := newTestService(t, nil, nil)
	login(t, svc, "Nora", "1234")

	request, err := svc.SendConnectionRequest(context.Background(), SendConnectionInput{
		StoryID:       "1",
		ReceiverAlias: "WanderingSpirit",
		Note:          "Your story really resonated with me.",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if request.Status != atlas.ConnectionPending || request.SenderAlias != "Nora" {
		t.Fatalf("request = %+v", request)
	}

	settled, found, err := svc.UpdateConnection(request.ID, atlas.ConnectionConnected)
	if err != nil || !found {
		t.Fatalf("settle: found=%v err=%v", found, err)
	}
	if settled.Status != atlas.ConnectionConnected {
		t.Fatalf("status = %q", settled.Status)
	}
	if settled.SenderAlias != request.SenderAlias || settled.ReceiverAlias != request.ReceiverAlias ||
		settled.StoryID != request.StoryID || settled.InitialNote != request.InitialNote {
		t.Fatalf("settling changed request fields: %+v", settled)
	}

	// Settled is terminal
	again, _, err := svc.UpdateConnection(request.ID, atlas.ConnectionDeclined)
	if err != nil {
		t.Fatalf("resettle: %v", err)
	}
	if again.Status != atlas.ConnectionConnected {
		t.Fatalf("terminal status overwritten: %q", again.Status)
	}
}

func TestUpdateConnectionRejectsBadStatus(t *testing.T) {
	svc := newTestService(t, nil, nil)
	_, _, err := svc.UpdateConnection("con_x", "MAYBE")
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("err = %v, want VALIDATION_ERROR", err)
	}
}

func TestMoodLogNewestFirstAndPersisted(t *testing.T) {
	snapshots := &fakeSnapshots{}
	svc := newTestService(t, nil, snapshots)
	login(t, svc, "Nora", "1234")

	if _, err := svc.AddMood(context.Background(), AddMoodInput{Type: "calm", Label: "Calm"}); err != nil {
		t.Fatalf("mood 1: %v", err)
	}
	if _, err := svc.AddMood(context.Background(), AddMoodInput{Type: "stormy", Label: "Stormy"}); err != nil {
		t.Fatalf("mood 2: %v", err)
	}

	moods := svc.MoodLog()
	if len(moods) != 2 || moods[0].Label != "Stormy" || moods[1].Label != "Calm" {
		t.Fatalf("mood log = %+v", moods)
	}
	if snapshots.moodSaves != 2 {
		t.Fatalf("mood snapshot saves = %d, want 2", snapshots.moodSaves)
	}
	if snapshots.identitySaves != 1 {
		t.Fatalf("identity snapshot saves = %d, want 1", snapshots.identitySaves)
	}
	if len(snapshots.moods) != 2 || snapshots.moods[0].Label != "Stormy" {
		t.Fatalf("persisted log = %+v", snapshots.moods)
	}
}

func TestAddMoodDefaultsLabelFromType(t *testing.T) {
	svc := newTestService(t, nil, nil)
	entry, err := svc.AddMood(context.Background(), AddMoodInput{Type: "foggy"})
	if err != nil {
		t.Fatalf("mood: %v", err)
	}
	if entry.Label != "Foggy" {
		t.Fatalf("label = %q, want Foggy", entry.Label)
	}
}

func TestLogoutClearsIdentityAndMoods(t *testing.T) {
	snapshots := &fakeSnapshots{}
	svc := newTestService(t, nil, snapshots)
	login(t, svc, "Nora", "1234")
	if _, err := svc.AddMood(context.Background(), AddMoodInput{Type: "calm", Label: "Calm"}); err != nil {
		t.Fatalf("mood: %v", err)
	}

	svc.Logout(context.Background())

	if svc.CurrentUser() != nil {
		t.Fatal("identity survived logout")
	}
	if len(svc.MoodLog()) != 0 {
		t.Fatal("mood log survived logout")
	}
	if snapshots.identity != nil || snapshots.moods != nil {
		t.Fatal("snapshots survived logout")
	}

	// Stories and connections are untouched; gated mutations are rejected
	if page := svc.Feed("All", 2); len(page.Stories) == 0 {
		t.Fatal("stories must survive logout")
	}
	_, err := svc.AddComment(context.Background(), "1", AddCommentInput{Content: "hello"})
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "NO_ACTIVE_IDENTITY" {
		t.Fatalf("err = %v, want NO_ACTIVE_IDENTITY", err)
	}
}

func TestBootstrapRestoresSnapshots(t *testing.T) {
	snapshots := &fakeSnapshots{
		identity: &atlas.Identity{Alias: "Returning", PIN: "4321", JoinedAt: time.Now().Add(-48 * time.Hour)},
		moods:    []atlas.MoodEntry{{ID: "mood_1", Type: "calm", Label: "Calm", Timestamp: time.Now()}},
	}
	svc := newTestService(t, nil, snapshots)

	user := svc.CurrentUser()
	if user == nil || user.Alias != "Returning" {
		t.Fatalf("restored user = %+v", user)
	}
	if moods := svc.MoodLog(); len(moods) != 1 || moods[0].ID != "mood_1" {
		t.Fatalf("restored moods = %+v", moods)
	}
}

func TestFeedFilterAndPagination(t *testing.T) {
	svc := newTestService(t, nil, nil)

	page := svc.Feed("All", 1)
	if len(page.Stories) != 5 || !page.HasMore {
		t.Fatalf("page 1: %d stories, hasMore=%v", len(page.Stories), page.HasMore)
	}
	page = svc.Feed("All", 2)
	if len(page.Stories) != 6 || page.HasMore {
		t.Fatalf("page 2: %d stories, hasMore=%v", len(page.Stories), page.HasMore)
	}

	filtered := svc.Feed("Hopeful", 1)
	for _, story := range filtered.Stories {
		found := false
		for _, tone := range story.Analysis.EmotionalTone {
			if tone == "Hopeful" {
				found = true
			}
		}
		if !found {
			t.Fatalf("story %s does not carry the Hopeful tone", story.ID)
		}
	}
	if len(filtered.Stories) == 0 {
		t.Fatal("seed data has Hopeful stories")
	}

	if page.Tones[0] != "All" {
		t.Fatalf("tones = %v, want All first", page.Tones)
	}
}

func TestToneCheckFallsBack(t *testing.T) {
	svc := newTestService(t, &fakeAnalyzer{toneErr: errors.New("unreachable")}, nil)
	if got := svc.ToneCheck(context.Background(), "draft"); got != "Keep writing from the heart." {
		t.Fatalf("fallback = %q", got)
	}

	svc = newTestService(t, nil, nil)
	if got := svc.ToneCheck(context.Background(), "draft"); got != "Keep writing from the heart." {
		t.Fatalf("nil analyzer fallback = %q", got)
	}

	svc = newTestService(t, &fakeAnalyzer{tone: "Beautifully framed."}, nil)
	if got := svc.ToneCheck(context.Background(), "draft"); got != "Beautifully framed." {
		t.Fatalf("tone = %q", got)
	}
}

func TestShareStoryIndexedForSearch(t *testing.T) {
	fake := &fakeAnalyzer{result: atlas.StoryAnalysis{
		EmotionalTone:    []string{"Hopeful"},
		Summary:          "A hopeful step.",
		CopingStrategies: []atlas.CopingStrategy{},
	}}
	svc := newTestService(t, fake, nil)
	login(t, svc, "Nora", "1234")

	story, err := svc.ShareStory(context.Background(), "I planted zinnias on the balcony today")
	if err != nil {
		t.Fatalf("share: %v", err)
	}

	resp := svc.Search(searchQuery("zinnias"))
	if resp.Total != 1 || resp.Results[0].ID != story.ID {
		t.Fatalf("search got %+v", resp)
	}
}

func searchQuery(text string) search.Query {
	return search.Query{Text: text}
}
