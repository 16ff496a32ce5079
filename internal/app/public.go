package app

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"foliocms/pkg/domain"
)

// PublicSite aggregates everything a visitor-facing renderer needs for one
// site in a single response. Missing sections degrade to empty lists, never
// to an error; only an unknown site id fails.
func (a *App) PublicSite(ctx context.Context, siteID string) (*domain.PublicSite, error) {
	site, ok, err := a.store.GetSite(siteID)
	if err != nil {
		return nil, internalError(err)
	}
	if !ok {
		return nil, notFoundError("site not found")
	}

	out := &domain.PublicSite{
		Site: domain.PublicSiteInfo{
			ID:           site.ID,
			Template:     site.Template,
			CustomDomain: site.CustomDomain,
		},
		Collections: []domain.PublicCollection{},
		Gallery:     []domain.PublicImage{},
		BTS:         []domain.PublicImage{},
		Posts:       []domain.PublicPost{},
	}

	if profile, ok, err := a.store.GetProfile(siteID); err != nil {
		return nil, internalError(err)
	} else if ok {
		out.Profile = publicProfile(profile)
	}

	collections, err := a.store.ListCollectionsBySite(siteID, 0)
	if err != nil {
		return nil, internalError(err)
	}
	out.Collections = make([]domain.PublicCollection, len(collections))
	g, _ := errgroup.WithContext(ctx)
	for i, c := range collections {
		g.Go(func() error {
			media, err := a.store.ListCollectionMedia(c.ID)
			if err != nil {
				return err
			}
			out.Collections[i] = publicCollection(c, media)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, internalError(err)
	}

	gallery, err := a.store.ListGalleryImages(siteID)
	if err != nil {
		return nil, internalError(err)
	}
	for _, img := range gallery {
		out.Gallery = append(out.Gallery, domain.PublicImage{
			ID: img.ID, URL: img.URL, Type: img.Type, Filename: img.Filename,
		})
	}

	bts, err := a.store.ListBTSImages(siteID)
	if err != nil {
		return nil, internalError(err)
	}
	for _, img := range bts {
		out.BTS = append(out.BTS, domain.PublicImage{
			ID: img.ID, URL: img.URL, Filename: img.Filename,
		})
	}

	posts, err := a.store.ListPosts(siteID, true)
	if err != nil {
		return nil, internalError(err)
	}
	for _, post := range posts {
		out.Posts = append(out.Posts, domain.PublicPost{
			ID:        post.ID,
			Title:     post.Title,
			Content:   post.Content,
			Slug:      post.Slug,
			CreatedAt: post.CreatedAt,
		})
	}

	return out, nil
}

// SiteByDomain resolves a custom domain to its site. The lookup matches the
// stored domain with and without a leading www.
func (a *App) SiteByDomain(domainName string) (*domain.DomainLookup, error) {
	domainName = strings.ToLower(strings.TrimSpace(domainName))
	domainName = strings.TrimPrefix(domainName, "www.")
	if domainName == "" {
		return nil, validationError("domain is required")
	}
	site, owner, ok, err := a.store.GetSiteByCustomDomain(domainName, "www."+domainName)
	if err != nil {
		return nil, internalError(err)
	}
	if !ok {
		return nil, notFoundError("no site for domain")
	}
	return &domain.DomainLookup{
		SiteID:       site.ID,
		Template:     site.Template,
		CustomDomain: site.CustomDomain,
		OwnerName:    owner.FullName,
	}, nil
}

// ListDomains returns every site that has a custom domain configured, for
// edge routing tables.
func (a *App) ListDomains() ([]domain.DomainLookup, error) {
	sites, err := a.store.ListSitesWithDomain()
	if err != nil {
		return nil, internalError(err)
	}
	out := make([]domain.DomainLookup, 0, len(sites))
	for _, site := range sites {
		out = append(out, domain.DomainLookup{
			SiteID:       site.ID,
			Template:     site.Template,
			CustomDomain: site.CustomDomain,
		})
	}
	return out, nil
}

func publicProfile(p domain.Profile) *domain.PublicProfile {
	out := &domain.PublicProfile{
		FullName:  p.FullName,
		About:     p.About,
		ResumeURL: p.ResumeURL,
	}
	if p.ShowInstagram && p.Instagram != "" {
		out.Instagram = &p.Instagram
	}
	if p.ShowLinkedIn && p.LinkedIn != "" {
		out.LinkedIn = &p.LinkedIn
	}
	if p.ShowIMDB && p.IMDB != "" {
		out.IMDB = &p.IMDB
	}
	if p.ShowArtStation && p.ArtStation != "" {
		out.ArtStation = &p.ArtStation
	}
	return out
}

func publicCollection(c domain.Collection, media []domain.CollectionMedia) domain.PublicCollection {
	out := domain.PublicCollection{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Software:    c.Software,
		Equipment:   c.Equipment,
		Media:       make([]domain.PublicMedia, 0, len(media)),
	}
	if out.Software == nil {
		out.Software = []string{}
	}
	if out.Equipment == nil {
		out.Equipment = []string{}
	}
	for _, m := range media {
		out.Media = append(out.Media, domain.PublicMedia{
			ID: m.ID, URL: m.URL, Type: m.Type, Filename: m.Filename,
		})
	}
	return out
}
