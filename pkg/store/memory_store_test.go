package store

import (
	"testing"
	"time"

	"foliocms/pkg/domain"
)

func seedAccount(t *testing.T, s *MemoryStore, siteName string) domain.User {
	t.Helper()
	now := time.Now().UTC()
	user := domain.User{
		ID:        siteName + "-owner",
		Email:     siteName + "@example.com",
		SiteName:  siteName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	site := domain.Site{ID: siteName, OwnerID: user.ID, CreatedAt: now, UpdatedAt: now}
	profile := domain.Profile{SiteID: siteName, CreatedAt: now, UpdatedAt: now}
	if err := s.CreateAccount(user, site, profile); err != nil {
		t.Fatalf("create account %s: %v", siteName, err)
	}
	return user
}

func TestCollectionsOrderByIndexThenNewest(t *testing.T) {
	s := NewMemoryStore()
	seedAccount(t, s, "studio")

	base := time.Now().UTC()
	rows := []domain.Collection{
		{ID: "c-old", SiteID: "studio", Title: "Old", OrderIndex: 1, CreatedAt: base.Add(-2 * time.Hour)},
		{ID: "c-new", SiteID: "studio", Title: "New", OrderIndex: 1, CreatedAt: base},
		{ID: "c-first", SiteID: "studio", Title: "First", OrderIndex: 0, CreatedAt: base.Add(-1 * time.Hour)},
	}
	for _, c := range rows {
		if err := s.CreateCollection(c); err != nil {
			t.Fatalf("create %s: %v", c.ID, err)
		}
	}

	got, err := s.ListCollectionsBySite("studio", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"c-first", "c-new", "c-old"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d = %s, want %s (full: %v)", i, got[i].ID, id, got)
		}
	}
}

func TestDeleteCollectionCascadesMedia(t *testing.T) {
	s := NewMemoryStore()
	seedAccount(t, s, "studio")

	if err := s.CreateCollection(domain.Collection{ID: "c1", SiteID: "studio", Title: "Reel"}); err != nil {
		t.Fatalf("create collection: %v", err)
	}
	for i, id := range []string{"m1", "m2"} {
		if err := s.AddCollectionMedia(domain.CollectionMedia{
			ID: id, CollectionID: "c1", URL: "https://cdn/" + id, OrderIndex: i,
		}); err != nil {
			t.Fatalf("add media %s: %v", id, err)
		}
	}
	if max, _ := s.MaxMediaOrderIndex("c1"); max != 1 {
		t.Fatalf("max order index = %d, want 1", max)
	}

	if err := s.DeleteCollection("c1"); err != nil {
		t.Fatalf("delete collection: %v", err)
	}
	media, err := s.ListCollectionMedia("c1")
	if err != nil {
		t.Fatalf("list media: %v", err)
	}
	if len(media) != 0 {
		t.Fatalf("media survived collection delete: %v", media)
	}
	if max, _ := s.MaxMediaOrderIndex("c1"); max != -1 {
		t.Fatalf("empty collection max = %d, want -1", max)
	}
}

func TestListSettingsFiltersByKey(t *testing.T) {
	s := NewMemoryStore()
	seedAccount(t, s, "studio")

	for _, st := range []domain.Setting{
		{ID: "s1", SiteID: "studio", Key: "theme", Value: "dark"},
		{ID: "s2", SiteID: "studio", Key: "theme", Value: "light"},
		{ID: "s3", SiteID: "studio", Key: "font", Value: "serif"},
		{ID: "s4", SiteID: "other", Key: "theme", Value: "dark"},
	} {
		if err := s.CreateSetting(st); err != nil {
			t.Fatalf("create setting %s: %v", st.ID, err)
		}
	}

	all, err := s.ListSettings("studio", "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all settings = %d rows, want 3", len(all))
	}
	themes, err := s.ListSettings("studio", "theme")
	if err != nil {
		t.Fatalf("list themes: %v", err)
	}
	if len(themes) != 2 {
		t.Fatalf("theme settings = %d rows, want 2 (keys are not unique)", len(themes))
	}
}

func TestCustomDomainLookupMatchesWWWVariant(t *testing.T) {
	s := NewMemoryStore()
	owner := seedAccount(t, s, "studio")

	if err := s.SetSiteDomainByOwner(owner.ID, "studio.example"); err != nil {
		t.Fatalf("set domain: %v", err)
	}

	site, user, ok, err := s.GetSiteByCustomDomain("studio.example", "www.studio.example")
	if err != nil || !ok {
		t.Fatalf("lookup: ok=%v err=%v", ok, err)
	}
	if site.ID != "studio" || user.ID != owner.ID {
		t.Fatalf("lookup = site %s user %s", site.ID, user.ID)
	}

	if _, _, ok, _ := s.GetSiteByCustomDomain("nobody.example", "www.nobody.example"); ok {
		t.Fatal("unknown domain must not match")
	}
}
