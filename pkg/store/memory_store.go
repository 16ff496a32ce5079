package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"foliocms/pkg/domain"
)

// MemoryStore keeps all rows in-process. It backs tests and mirrors the SQL
// store's ordering rules.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[string]domain.User
	email       map[string]string // email -> user ID
	siteName    map[string]string // site name -> user ID
	sites       map[string]domain.Site
	profiles    map[string]domain.Profile // key: site ID
	collections map[string]domain.Collection
	media       map[string][]domain.CollectionMedia // key: collection ID
	gallery     map[string]domain.GalleryImage
	bts         map[string]domain.BTSImage
	posts       map[string]domain.Post
	comments    map[string]domain.Comment
	settings    map[string]domain.Setting
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[string]domain.User),
		email:       make(map[string]string),
		siteName:    make(map[string]string),
		sites:       make(map[string]domain.Site),
		profiles:    make(map[string]domain.Profile),
		collections: make(map[string]domain.Collection),
		media:       make(map[string][]domain.CollectionMedia),
		gallery:     make(map[string]domain.GalleryImage),
		bts:         make(map[string]domain.BTSImage),
		posts:       make(map[string]domain.Post),
		comments:    make(map[string]domain.Comment),
		settings:    make(map[string]domain.Setting),
	}
}

func (m *MemoryStore) CreateAccount(user domain.User, site domain.Site, profile domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	m.email[user.Email] = user.ID
	m.siteName[user.SiteName] = user.ID
	m.sites[site.ID] = site
	m.profiles[profile.SiteID] = profile
	return nil
}

func (m *MemoryStore) GetUserByEmail(email string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.email[email]
	if !ok {
		return domain.User{}, false, nil
	}
	user, ok := m.users[id]
	return user, ok, nil
}

func (m *MemoryStore) GetUserByID(id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	return user, ok, nil
}

func (m *MemoryStore) GetUserBySiteName(siteName string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.siteName[siteName]
	if !ok {
		return domain.User{}, false, nil
	}
	user, ok := m.users[id]
	return user, ok, nil
}

func (m *MemoryStore) HasUserEmail(email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.email[email]
	return ok, nil
}

func (m *MemoryStore) HasSite(id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.sites[id]
	return ok, nil
}

func (m *MemoryStore) UpdateUser(id string, patch domain.UserPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil
	}
	if patch.FullName != nil {
		user.FullName = *patch.FullName
	}
	if patch.CustomDomain != nil {
		user.CustomDomain = *patch.CustomDomain
	}
	user.UpdatedAt = time.Now().UTC()
	m.users[id] = user
	return nil
}

// SetUserFlags flips the admin and pro flags on a user. Test helper.
func (m *MemoryStore) SetUserFlags(id string, isAdmin, isPro bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return
	}
	user.IsAdmin = isAdmin
	user.IsPro = isPro
	m.users[id] = user
}

func (m *MemoryStore) SetUserPassword(id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now().UTC()
	m.users[id] = user
	return nil
}

func (m *MemoryStore) GetSite(id string) (domain.Site, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	site, ok := m.sites[id]
	return site, ok, nil
}

func (m *MemoryStore) GetSiteByCustomDomain(domainName, wwwDomain string) (domain.Site, domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, site := range m.sites {
		if site.CustomDomain != domainName && site.CustomDomain != wwwDomain {
			continue
		}
		owner := m.users[site.OwnerID]
		return site, owner, true, nil
	}
	return domain.Site{}, domain.User{}, false, nil
}

func (m *MemoryStore) ListSitesWithDomain() ([]domain.Site, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Site, 0)
	for _, site := range m.sites {
		if site.CustomDomain != "" {
			res = append(res, site)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (m *MemoryStore) UpdateSite(id string, patch domain.SitePatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	site, ok := m.sites[id]
	if !ok {
		return nil
	}
	if patch.Template != nil {
		site.Template = *patch.Template
	}
	if patch.CustomDomain != nil {
		site.CustomDomain = *patch.CustomDomain
	}
	site.UpdatedAt = time.Now().UTC()
	m.sites[id] = site
	return nil
}

func (m *MemoryStore) SetSiteDomainByOwner(ownerID, customDomain string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, site := range m.sites {
		if site.OwnerID != ownerID {
			continue
		}
		site.CustomDomain = customDomain
		site.UpdatedAt = time.Now().UTC()
		m.sites[id] = site
	}
	return nil
}

func (m *MemoryStore) GetProfile(siteID string) (domain.Profile, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	profile, ok := m.profiles[siteID]
	return profile, ok, nil
}

func (m *MemoryStore) UpsertProfile(p domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.profiles[p.SiteID]; ok {
		p.CreatedAt = existing.CreatedAt
	}
	m.profiles[p.SiteID] = p
	return nil
}

func (m *MemoryStore) GetCollection(id string) (domain.Collection, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.collections[id]
	return c, ok, nil
}

func (m *MemoryStore) ListCollectionsBySite(siteID string, limit int) ([]domain.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Collection, 0)
	for _, c := range m.collections {
		if c.SiteID == siteID {
			res = append(res, c)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].OrderIndex != res[j].OrderIndex {
			return res[i].OrderIndex < res[j].OrderIndex
		}
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (m *MemoryStore) ListCollections(order CollectionOrder, limit int) ([]domain.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Collection, 0, len(m.collections))
	for _, c := range m.collections {
		res = append(res, c)
	}
	sort.Slice(res, func(i, j int) bool {
		var less bool
		switch order.Column {
		case "updated_at":
			less = res[i].UpdatedAt.Before(res[j].UpdatedAt)
		case "title":
			less = strings.ToLower(res[i].Title) < strings.ToLower(res[j].Title)
		default:
			less = res[i].CreatedAt.Before(res[j].CreatedAt)
		}
		if order.Desc {
			return !less
		}
		return less
	})
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (m *MemoryStore) CreateCollection(c domain.Collection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	media := c.Media
	c.Media = nil
	m.collections[c.ID] = c
	m.media[c.ID] = append(m.media[c.ID], media...)
	return nil
}

func (m *MemoryStore) UpdateCollection(id string, patch domain.CollectionPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[id]
	if !ok {
		return nil
	}
	if patch.Title != nil {
		c.Title = *patch.Title
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.Software != nil {
		c.Software = *patch.Software
	}
	if patch.Equipment != nil {
		c.Equipment = *patch.Equipment
	}
	if patch.OrderIndex != nil {
		c.OrderIndex = *patch.OrderIndex
	}
	c.UpdatedAt = time.Now().UTC()
	m.collections[id] = c
	return nil
}

func (m *MemoryStore) DeleteCollection(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections, id)
	delete(m.media, id)
	return nil
}

func (m *MemoryStore) ListCollectionMedia(collectionID string) ([]domain.CollectionMedia, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := append([]domain.CollectionMedia(nil), m.media[collectionID]...)
	sort.Slice(res, func(i, j int) bool { return res[i].OrderIndex < res[j].OrderIndex })
	return res, nil
}

func (m *MemoryStore) MaxMediaOrderIndex(collectionID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	max := -1
	for _, media := range m.media[collectionID] {
		if media.OrderIndex > max {
			max = media.OrderIndex
		}
	}
	return max, nil
}

func (m *MemoryStore) AddCollectionMedia(media domain.CollectionMedia) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.media[media.CollectionID] = append(m.media[media.CollectionID], media)
	return nil
}

func (m *MemoryStore) ListGalleryImages(siteID string) ([]domain.GalleryImage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.GalleryImage, 0)
	for _, img := range m.gallery {
		if img.SiteID == siteID {
			res = append(res, img)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].OrderIndex != res[j].OrderIndex {
			return res[i].OrderIndex < res[j].OrderIndex
		}
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

func (m *MemoryStore) GetGalleryImage(id string) (domain.GalleryImage, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	img, ok := m.gallery[id]
	return img, ok, nil
}

func (m *MemoryStore) CreateGalleryImage(img domain.GalleryImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gallery[img.ID] = img
	return nil
}

func (m *MemoryStore) DeleteGalleryImage(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.gallery, id)
	return nil
}

func (m *MemoryStore) ListBTSImages(siteID string) ([]domain.BTSImage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.BTSImage, 0)
	for _, img := range m.bts {
		if img.SiteID == siteID {
			res = append(res, img)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].OrderIndex != res[j].OrderIndex {
			return res[i].OrderIndex < res[j].OrderIndex
		}
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

func (m *MemoryStore) GetBTSImage(id string) (domain.BTSImage, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	img, ok := m.bts[id]
	return img, ok, nil
}

func (m *MemoryStore) CreateBTSImage(img domain.BTSImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bts[img.ID] = img
	return nil
}

func (m *MemoryStore) DeleteBTSImage(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bts, id)
	return nil
}

func (m *MemoryStore) ListPosts(siteID string, publishedOnly bool) ([]domain.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Post, 0)
	for _, p := range m.posts {
		if p.SiteID != siteID {
			continue
		}
		if publishedOnly && !p.Published {
			continue
		}
		res = append(res, p)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

func (m *MemoryStore) GetPost(id string) (domain.Post, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.posts[id]
	return p, ok, nil
}

func (m *MemoryStore) CreatePost(p domain.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[p.ID] = p
	return nil
}

func (m *MemoryStore) UpdatePost(id string, patch domain.PostPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Published != nil {
		p.Published = *patch.Published
	}
	p.UpdatedAt = time.Now().UTC()
	m.posts[id] = p
	return nil
}

func (m *MemoryStore) DeletePost(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.posts, id)
	return nil
}

func (m *MemoryStore) ListCommentsByCollection(collectionID string) ([]domain.Comment, error) {
	return m.listComments(func(c domain.Comment) bool { return c.CollectionID == collectionID })
}

func (m *MemoryStore) ListCommentsByContent(contentID string) ([]domain.Comment, error) {
	return m.listComments(func(c domain.Comment) bool { return c.ContentID == contentID })
}

func (m *MemoryStore) listComments(match func(domain.Comment) bool) ([]domain.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Comment, 0)
	for _, c := range m.comments {
		if match(c) {
			res = append(res, c)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

func (m *MemoryStore) GetComment(id string) (domain.Comment, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.comments[id]
	return c, ok, nil
}

func (m *MemoryStore) CreateComment(c domain.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.comments[c.ID] = c
	return nil
}

func (m *MemoryStore) DeleteComment(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.comments, id)
	return nil
}

func (m *MemoryStore) ListSettings(siteID, key string) ([]domain.Setting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Setting, 0)
	for _, s := range m.settings {
		if s.SiteID != siteID {
			continue
		}
		if key != "" && s.Key != key {
			continue
		}
		res = append(res, s)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (m *MemoryStore) GetSetting(id string) (domain.Setting, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.settings[id]
	return s, ok, nil
}

func (m *MemoryStore) CreateSetting(s domain.Setting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[s.ID] = s
	return nil
}

func (m *MemoryStore) UpdateSetting(id string, patch domain.SettingPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.settings[id]
	if !ok {
		return nil
	}
	if patch.URL != nil {
		s.URL = *patch.URL
	}
	if patch.Value != nil {
		s.Value = *patch.Value
	}
	s.UpdatedAt = time.Now().UTC()
	m.settings[id] = s
	return nil
}

func (m *MemoryStore) DeleteSetting(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.settings, id)
	return nil
}
