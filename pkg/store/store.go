package store

import "foliocms/pkg/domain"

// CollectionOrder is the validated ordering for the global collection feed.
type CollectionOrder struct {
	Column string // created_at, updated_at, or title
	Desc   bool
}

// Store defines persistence operations for all tenant-scoped resources.
type Store interface {
	// accounts. CreateAccount inserts user, site, and an empty profile as one
	// transaction.
	CreateAccount(user domain.User, site domain.Site, profile domain.Profile) error
	GetUserByEmail(email string) (domain.User, bool, error)
	GetUserByID(id string) (domain.User, bool, error)
	GetUserBySiteName(siteName string) (domain.User, bool, error)
	HasUserEmail(email string) (bool, error)
	HasSite(id string) (bool, error)
	UpdateUser(id string, patch domain.UserPatch) error
	SetUserPassword(id, passwordHash string) error

	// sites
	GetSite(id string) (domain.Site, bool, error)
	GetSiteByCustomDomain(domainName, wwwDomain string) (domain.Site, domain.User, bool, error)
	ListSitesWithDomain() ([]domain.Site, error)
	UpdateSite(id string, patch domain.SitePatch) error
	SetSiteDomainByOwner(ownerID, customDomain string) error

	// profiles (one row per site, upserted)
	GetProfile(siteID string) (domain.Profile, bool, error)
	UpsertProfile(p domain.Profile) error

	// collections and their media
	GetCollection(id string) (domain.Collection, bool, error)
	ListCollectionsBySite(siteID string, limit int) ([]domain.Collection, error)
	ListCollections(order CollectionOrder, limit int) ([]domain.Collection, error)
	CreateCollection(c domain.Collection) error
	UpdateCollection(id string, patch domain.CollectionPatch) error
	DeleteCollection(id string) error
	ListCollectionMedia(collectionID string) ([]domain.CollectionMedia, error)
	// MaxMediaOrderIndex returns -1 when the collection has no media, so
	// appending at max+1 starts at zero.
	MaxMediaOrderIndex(collectionID string) (int, error)
	AddCollectionMedia(m domain.CollectionMedia) error

	// gallery images
	ListGalleryImages(siteID string) ([]domain.GalleryImage, error)
	GetGalleryImage(id string) (domain.GalleryImage, bool, error)
	CreateGalleryImage(img domain.GalleryImage) error
	DeleteGalleryImage(id string) error

	// behind-the-scenes images
	ListBTSImages(siteID string) ([]domain.BTSImage, error)
	GetBTSImage(id string) (domain.BTSImage, bool, error)
	CreateBTSImage(img domain.BTSImage) error
	DeleteBTSImage(id string) error

	// posts
	ListPosts(siteID string, publishedOnly bool) ([]domain.Post, error)
	GetPost(id string) (domain.Post, bool, error)
	CreatePost(p domain.Post) error
	UpdatePost(id string, patch domain.PostPatch) error
	DeletePost(id string) error

	// comments
	ListCommentsByCollection(collectionID string) ([]domain.Comment, error)
	ListCommentsByContent(contentID string) ([]domain.Comment, error)
	GetComment(id string) (domain.Comment, bool, error)
	CreateComment(c domain.Comment) error
	DeleteComment(id string) error

	// settings
	ListSettings(siteID, key string) ([]domain.Setting, error)
	GetSetting(id string) (domain.Setting, bool, error)
	CreateSetting(s domain.Setting) error
	UpdateSetting(id string, patch domain.SettingPatch) error
	DeleteSetting(id string) error
}
