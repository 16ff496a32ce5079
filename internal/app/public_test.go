package app

import (
	"context"
	"testing"

	"foliocms/pkg/domain"
)

func TestPublicSiteEmptySectionsAreLists(t *testing.T) {
	a, _, _ := newTestApp(t)
	twoTenants(t, a)

	site, err := a.PublicSite(context.Background(), "alice-films")
	if err != nil {
		t.Fatalf("public site: %v", err)
	}
	if site.Collections == nil || site.Gallery == nil || site.BTS == nil || site.Posts == nil {
		t.Fatalf("sections must be empty lists, not null: %+v", site)
	}
	if len(site.Collections)+len(site.Gallery)+len(site.BTS)+len(site.Posts) != 0 {
		t.Fatalf("fresh site should be empty: %+v", site)
	}
	if site.Profile == nil {
		t.Fatal("signup creates a profile, it should be present")
	}

	if _, err := a.PublicSite(context.Background(), "no-such-site"); Classify(err) != ErrNotFound {
		t.Fatalf("unknown site: expected not found, got %v", err)
	}
}

func TestPublicSiteRespectsVisibilityFlags(t *testing.T) {
	a, _, _ := newTestApp(t)
	alice, _ := twoTenants(t, a)

	if _, err := a.UpdateResource(domain.KindProfiles, alice, "alice-films", []byte(`{
		"fullName":"Alice",
		"instagram":"@alice","showInstagram":true,
		"linkedin":"in/alice","showLinkedin":false
	}`)); err != nil {
		t.Fatalf("upsert profile: %v", err)
	}

	site, err := a.PublicSite(context.Background(), "alice-films")
	if err != nil {
		t.Fatalf("public site: %v", err)
	}
	if site.Profile.Instagram == nil || *site.Profile.Instagram != "@alice" {
		t.Fatalf("visible instagram missing: %+v", site.Profile)
	}
	if site.Profile.LinkedIn != nil {
		t.Fatalf("hidden linkedin leaked: %q", *site.Profile.LinkedIn)
	}
}

func TestPublicSiteFiltersDraftsAndOrdersMedia(t *testing.T) {
	a, _, _ := newTestApp(t)
	alice, _ := twoTenants(t, a)

	mustCreate(t, a, domain.KindPosts, alice, `{"title":"Live post"}`)
	mustCreate(t, a, domain.KindPosts, alice, `{"title":"Draft post","published":false}`)
	mustCreate(t, a, domain.KindCollections, alice,
		`{"title":"Reel","media":[{"url":"https://cdn/a.jpg"},{"url":"https://cdn/b.jpg"}]}`)

	site, err := a.PublicSite(context.Background(), "alice-films")
	if err != nil {
		t.Fatalf("public site: %v", err)
	}
	if len(site.Posts) != 1 || site.Posts[0].Title != "Live post" {
		t.Fatalf("drafts must not appear publicly: %+v", site.Posts)
	}
	if len(site.Collections) != 1 || len(site.Collections[0].Media) != 2 {
		t.Fatalf("collection media missing: %+v", site.Collections)
	}
	if site.Collections[0].Media[0].URL != "https://cdn/a.jpg" {
		t.Fatalf("media order lost: %+v", site.Collections[0].Media)
	}
}

func TestSiteByDomainStripsWWW(t *testing.T) {
	a, _, _ := newTestApp(t)
	alice, _ := twoTenants(t, a)

	if _, err := a.UpdateResource(domain.KindUsers, alice, alice.UserID,
		[]byte(`{"customDomain":"alice.example"}`)); err != nil {
		t.Fatalf("set custom domain: %v", err)
	}

	for _, input := range []string{"alice.example", "www.alice.example", "WWW.Alice.Example"} {
		lookup, err := a.SiteByDomain(input)
		if err != nil {
			t.Fatalf("lookup %q: %v", input, err)
		}
		if lookup.SiteID != "alice-films" {
			t.Fatalf("lookup %q = %+v", input, lookup)
		}
	}

	if _, err := a.SiteByDomain("unknown.example"); Classify(err) != ErrNotFound {
		t.Fatalf("unknown domain: expected not found, got %v", err)
	}
	if _, err := a.SiteByDomain(""); Classify(err) != ErrValidation {
		t.Fatalf("empty domain: expected validation, got %v", err)
	}
}

func TestListDomainsReturnsOnlyConfiguredSites(t *testing.T) {
	a, _, _ := newTestApp(t)
	alice, _ := twoTenants(t, a)

	domains, err := a.ListDomains()
	if err != nil {
		t.Fatalf("list domains: %v", err)
	}
	if len(domains) != 0 {
		t.Fatalf("no domains configured yet, got %+v", domains)
	}

	if _, err := a.UpdateResource(domain.KindUsers, alice, alice.UserID,
		[]byte(`{"customDomain":"alice.example"}`)); err != nil {
		t.Fatalf("set custom domain: %v", err)
	}
	domains, err = a.ListDomains()
	if err != nil {
		t.Fatalf("list domains: %v", err)
	}
	if len(domains) != 1 || domains[0].CustomDomain != "alice.example" {
		t.Fatalf("domains = %+v", domains)
	}
}
