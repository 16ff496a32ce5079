package app

import (
	"encoding/json"
	"testing"

	"foliocms/pkg/domain"
)

func mustCreate(t *testing.T, a *App, kind domain.Kind, p *domain.Principal, body string) map[string]any {
	t.Helper()
	result, err := a.CreateResource(kind, p, []byte(body))
	if err != nil {
		t.Fatalf("create %s: %v", kind, err)
	}
	raw, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal %s: %v", kind, err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal %s: %v", kind, err)
	}
	return out
}

func twoTenants(t *testing.T, a *App) (alice, bob *domain.Principal) {
	t.Helper()
	ar := signUp(t, a, "alice@example.com", "alice-films")
	br := signUp(t, a, "bob@example.com", "bob-vfx")
	return principalFor(t, a, ar.Token), principalFor(t, a, br.Token)
}

func TestCollectionCreateTakesSiteFromCaller(t *testing.T) {
	a, _, _ := newTestApp(t)
	alice, _ := twoTenants(t, a)

	// A spoofed siteId in the body is ignored; the row lands in the caller's
	// own site.
	created := mustCreate(t, a, domain.KindCollections, alice,
		`{"title":"Reel","siteId":"bob-vfx"}`)
	if created["siteId"] != "alice-films" {
		t.Fatalf("siteId = %v, want alice-films", created["siteId"])
	}
}

func TestCrossTenantMutationForbidden(t *testing.T) {
	a, st, _ := newTestApp(t)
	alice, bob := twoTenants(t, a)

	created := mustCreate(t, a, domain.KindCollections, alice, `{"title":"Reel"}`)
	id := created["id"].(string)

	if _, err := a.UpdateResource(domain.KindCollections, bob, id, []byte(`{"title":"Stolen"}`)); Classify(err) != ErrForbidden {
		t.Fatalf("cross-tenant update: expected forbidden, got %v", err)
	}
	if err := a.DeleteResource(domain.KindCollections, bob, id); Classify(err) != ErrForbidden {
		t.Fatalf("cross-tenant delete: expected forbidden, got %v", err)
	}

	// Nothing changed.
	row, ok, _ := st.GetCollection(id)
	if !ok || row.Title != "Reel" {
		t.Fatalf("collection after forbidden mutations = %+v, ok=%v", row, ok)
	}
}

func TestAdminOverridesTenantScope(t *testing.T) {
	a, st, _ := newTestApp(t)
	alice, bob := twoTenants(t, a)
	st.SetUserFlags(bob.UserID, true, false)
	bob.IsAdmin = true

	created := mustCreate(t, a, domain.KindCollections, alice, `{"title":"Reel"}`)
	id := created["id"].(string)

	if _, err := a.UpdateResource(domain.KindCollections, bob, id, []byte(`{"title":"Moderated"}`)); err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if err := a.DeleteResource(domain.KindCollections, bob, id); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestCollectionMediaAppendsAfterTail(t *testing.T) {
	a, st, _ := newTestApp(t)
	alice, _ := twoTenants(t, a)

	created := mustCreate(t, a, domain.KindCollections, alice,
		`{"title":"Reel","media":[{"url":"https://cdn/a.jpg"},{"url":"https://cdn/b.mp4","type":"video"}]}`)
	id := created["id"].(string)

	if _, err := a.UpdateResource(domain.KindCollections, alice, id,
		[]byte(`{"media":[{"url":"https://cdn/c.glb","type":"model"}]}`)); err != nil {
		t.Fatalf("append media: %v", err)
	}

	media, err := st.ListCollectionMedia(id)
	if err != nil {
		t.Fatalf("list media: %v", err)
	}
	if len(media) != 3 {
		t.Fatalf("media count = %d, want 3", len(media))
	}
	for i, m := range media {
		if m.OrderIndex != i {
			t.Fatalf("media[%d].OrderIndex = %d", i, m.OrderIndex)
		}
	}
	if media[1].Type != domain.MediaVideo || media[2].Type != domain.MediaModel {
		t.Fatalf("media types = %v %v", media[1].Type, media[2].Type)
	}
}

func TestGlobalCollectionFeedOrderFallback(t *testing.T) {
	a, _, _ := newTestApp(t)
	alice, bob := twoTenants(t, a)
	mustCreate(t, a, domain.KindCollections, alice, `{"title":"Alpha"}`)
	mustCreate(t, a, domain.KindCollections, bob, `{"title":"Zulu"}`)

	// An unrecognized column silently falls back to newest-first rather
	// than erroring or interpolating the input.
	result, err := a.ListResources(domain.KindCollections, nil, Query{OrderBy: "password_hash; DROP TABLE users"})
	if err != nil {
		t.Fatalf("list with bad orderBy: %v", err)
	}
	feed := result.([]domain.Collection)
	if len(feed) != 2 {
		t.Fatalf("feed length = %d, want 2", len(feed))
	}
	if feed[0].Title != "Zulu" {
		t.Fatalf("fallback order should be newest first, got %q first", feed[0].Title)
	}

	result, err = a.ListResources(domain.KindCollections, nil, Query{OrderBy: "title", OrderDir: "ASC"})
	if err != nil {
		t.Fatalf("list by title: %v", err)
	}
	feed = result.([]domain.Collection)
	if feed[0].Title != "Alpha" {
		t.Fatalf("title ASC should put Alpha first, got %q", feed[0].Title)
	}
}

func TestCommentTargetAndAuthorRules(t *testing.T) {
	a, _, _ := newTestApp(t)
	alice, bob := twoTenants(t, a)
	collection := mustCreate(t, a, domain.KindCollections, alice, `{"title":"Reel"}`)
	collectionID := collection["id"].(string)

	if _, err := a.CreateResource(domain.KindComments, bob, []byte(`{"text":"hi"}`)); Classify(err) != ErrValidation {
		t.Fatalf("no target: expected validation, got %v", err)
	}
	if _, err := a.CreateResource(domain.KindComments, bob,
		[]byte(`{"text":"hi","collectionId":"c1","contentId":"p1"}`)); Classify(err) != ErrValidation {
		t.Fatalf("two targets: expected validation, got %v", err)
	}

	created := mustCreate(t, a, domain.KindComments, bob,
		`{"text":"Great work","collectionId":"`+collectionID+`"}`)
	commentID := created["id"].(string)
	if created["authorName"] != "bob-vfx" {
		t.Fatalf("authorName defaults to the commenter's site, got %v", created["authorName"])
	}

	// The site owner is not the author and may not remove the comment.
	if err := a.DeleteResource(domain.KindComments, alice, commentID); Classify(err) != ErrForbidden {
		t.Fatalf("owner delete of foreign comment: expected forbidden, got %v", err)
	}
	if err := a.DeleteResource(domain.KindComments, bob, commentID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
}

func TestSettingsStayWithinSite(t *testing.T) {
	a, _, _ := newTestApp(t)
	alice, bob := twoTenants(t, a)

	if _, err := a.CreateResource(domain.KindSettings, bob,
		[]byte(`{"key":"theme","siteId":"alice-films"}`)); Classify(err) != ErrForbidden {
		t.Fatalf("spoofed siteId: expected forbidden, got %v", err)
	}

	created := mustCreate(t, a, domain.KindSettings, alice, `{"key":"theme","value":"dark"}`)
	id := created["id"].(string)
	if created["siteId"] != "alice-films" {
		t.Fatalf("siteId = %v", created["siteId"])
	}

	if _, err := a.UpdateResource(domain.KindSettings, bob, id, []byte(`{"value":"light"}`)); Classify(err) != ErrForbidden {
		t.Fatalf("cross-tenant setting update: expected forbidden, got %v", err)
	}
	if err := a.DeleteResource(domain.KindSettings, bob, id); Classify(err) != ErrForbidden {
		t.Fatalf("cross-tenant setting delete: expected forbidden, got %v", err)
	}
	if _, err := a.UpdateResource(domain.KindSettings, alice, id, []byte(`{"value":"light"}`)); err != nil {
		t.Fatalf("own setting update: %v", err)
	}
}

func TestUserLookupTiers(t *testing.T) {
	a, _, _ := newTestApp(t)
	alice, bob := twoTenants(t, a)

	// Public lookup by site name exposes only id, siteName, isPro.
	result, err := a.ListResources(domain.KindUsers, nil, Query{SiteName: "alice-films"})
	if err != nil {
		t.Fatalf("public lookup: %v", err)
	}
	users := result.([]publicUser)
	if len(users) != 1 || users[0].SiteName != "alice-films" {
		t.Fatalf("public lookup = %+v", users)
	}

	if _, err := a.ListResources(domain.KindUsers, nil, Query{SiteName: "no-such-site"}); Classify(err) != ErrNotFound {
		t.Fatalf("unknown site lookup: expected not found, got %v", err)
	}

	// Full rows are self-or-admin only.
	if _, err := a.GetResource(domain.KindUsers, nil, alice.UserID); Classify(err) != ErrUnauthenticated {
		t.Fatalf("anonymous full read: expected unauthenticated, got %v", err)
	}
	if _, err := a.GetResource(domain.KindUsers, bob, alice.UserID); Classify(err) != ErrForbidden {
		t.Fatalf("foreign full read: expected forbidden, got %v", err)
	}
	if _, err := a.GetResource(domain.KindUsers, alice, alice.UserID); err != nil {
		t.Fatalf("self read: %v", err)
	}
}

func TestUserCustomDomainMirrorsSite(t *testing.T) {
	a, st, _ := newTestApp(t)
	alice, _ := twoTenants(t, a)

	if _, err := a.UpdateResource(domain.KindUsers, alice, alice.UserID,
		[]byte(`{"customDomain":"alice.example"}`)); err != nil {
		t.Fatalf("update user: %v", err)
	}
	user, _, _ := st.GetUserByID(alice.UserID)
	if user.CustomDomain != "alice.example" {
		t.Fatalf("user.CustomDomain = %q", user.CustomDomain)
	}
	site, _, _ := st.GetSite("alice-films")
	if site.CustomDomain != "alice.example" {
		t.Fatalf("site.CustomDomain = %q, mirror missing", site.CustomDomain)
	}
}

func TestSiteUpdateRequiresOwner(t *testing.T) {
	a, _, _ := newTestApp(t)
	alice, bob := twoTenants(t, a)

	if _, err := a.UpdateResource(domain.KindSites, bob, "alice-films",
		[]byte(`{"template":"noir"}`)); Classify(err) != ErrForbidden {
		t.Fatalf("foreign site update: expected forbidden, got %v", err)
	}
	result, err := a.UpdateResource(domain.KindSites, alice, "alice-films",
		[]byte(`{"template":"noir"}`))
	if err != nil {
		t.Fatalf("own site update: %v", err)
	}
	if result.(domain.Site).Template != "noir" {
		t.Fatalf("template not applied: %+v", result)
	}
}

func TestProfileUpsertIsIdempotent(t *testing.T) {
	a, st, _ := newTestApp(t)
	alice, bob := twoTenants(t, a)

	body := `{"fullName":"Alice","about":"Director","resumeUrl":"https://cdn/alice.pdf","showInstagram":true}`
	if _, err := a.UpdateResource(domain.KindProfiles, alice, "alice-films", []byte(body)); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if _, err := a.UpdateResource(domain.KindProfiles, alice, "alice-films", []byte(body)); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	// Reading back works through the listing, but only with a site filter.
	if _, err := a.ListResources(domain.KindProfiles, nil, Query{}); Classify(err) != ErrValidation {
		t.Fatalf("listing without siteId: expected validation error, got %v", err)
	}
	listed, err := a.ListResources(domain.KindProfiles, nil, Query{SiteID: "alice-films"})
	if err != nil {
		t.Fatalf("listing by siteId: %v", err)
	}
	if got := listed.(domain.Profile); got.FullName != "Alice" {
		t.Fatalf("listed profile = %+v", got)
	}

	profile, ok, _ := st.GetProfile("alice-films")
	if !ok || profile.FullName != "Alice" || profile.About != "Director" {
		t.Fatalf("profile after upserts = %+v", profile)
	}

	// Omitting resumeUrl keeps the stored one.
	if _, err := a.UpdateResource(domain.KindProfiles, alice, "alice-films",
		[]byte(`{"fullName":"Alice B."}`)); err != nil {
		t.Fatalf("partial upsert: %v", err)
	}
	profile, _, _ = st.GetProfile("alice-films")
	if profile.ResumeURL != "https://cdn/alice.pdf" {
		t.Fatalf("resumeUrl lost on omit: %q", profile.ResumeURL)
	}

	if _, err := a.UpdateResource(domain.KindProfiles, bob, "alice-films", []byte(body)); Classify(err) != ErrForbidden {
		t.Fatalf("foreign profile upsert: expected forbidden, got %v", err)
	}
}

func TestPostLifecycleAndSlug(t *testing.T) {
	a, _, _ := newTestApp(t)
	alice, _ := twoTenants(t, a)

	created := mustCreate(t, a, domain.KindPosts, alice,
		`{"title":"Hello, World! 2024","content":"First post"}`)
	if created["slug"] != "hello-world-2024" {
		t.Fatalf("slug = %v", created["slug"])
	}
	if created["published"] != true {
		t.Fatal("posts default to published")
	}

	id := created["id"].(string)
	result, err := a.UpdateResource(domain.KindPosts, alice, id, []byte(`{"published":false}`))
	if err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	if result.(domain.Post).Published {
		t.Fatal("published patch not applied")
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello, World! 2024": "hello-world-2024",
		"  --Already--  ":    "already",
		"ALL CAPS":           "all-caps",
		"émoji🎥cut":          "moji-cut",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Fatalf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUnknownKindIsNotFound(t *testing.T) {
	a, _, _ := newTestApp(t)
	alice, _ := twoTenants(t, a)

	if _, err := a.ListResources("secrets", nil, Query{}); Classify(err) != ErrNotFound {
		t.Fatalf("unknown kind list: %v", err)
	}
	if _, err := a.CreateResource("secrets", alice, []byte(`{}`)); Classify(err) != ErrNotFound {
		t.Fatalf("unknown kind create: %v", err)
	}
	// Verbs a kind does not support look the same as unknown paths.
	if _, err := a.UpdateResource(domain.KindGallery, alice, "x", []byte(`{}`)); Classify(err) != ErrNotFound {
		t.Fatalf("unsupported verb: %v", err)
	}
}
