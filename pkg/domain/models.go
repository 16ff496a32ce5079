package domain

import "time"

// Kind enumerates the tenant-scoped resource collections served under /api/data.
type Kind string

const (
	KindProfiles    Kind = "profiles"
	KindCollections Kind = "collections"
	KindGallery     Kind = "gallery"
	KindBTS         Kind = "bts"
	KindPosts       Kind = "posts"
	KindComments    Kind = "comments"
	KindSettings    Kind = "settings"
	KindUsers       Kind = "users"
	KindSites       Kind = "sites"
)

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaModel MediaType = "model"
)

// User is an account holder. SiteName doubles as the tenant key and is
// immutable after signup.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	SiteName     string    `json:"siteName"`
	FullName     string    `json:"fullName,omitempty"`
	IsPro        bool      `json:"isPro"`
	IsAdmin      bool      `json:"isAdmin"`
	CustomDomain string    `json:"customDomain,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Principal is the authenticated identity resolved from a bearer token plus a
// fresh user-row lookup. Authorization flags come from the store, never from
// token claims.
type Principal struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	SiteName     string `json:"siteName"`
	FullName     string `json:"fullName,omitempty"`
	IsPro        bool   `json:"isPro"`
	IsAdmin      bool   `json:"isAdmin"`
	CustomDomain string `json:"customDomain,omitempty"`
}

// Site is the tenant record. Its ID equals the owner's siteName.
type Site struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"ownerId"`
	OwnerEmail   string    `json:"ownerEmail"`
	Template     string    `json:"template,omitempty"`
	CustomDomain string    `json:"customDomain,omitempty"`
	Status       string    `json:"status,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile holds the per-site about page. Each social link carries an
// independent visibility flag consulted only by the public view.
type Profile struct {
	SiteID         string    `json:"siteId"`
	FullName       string    `json:"fullName,omitempty"`
	About          string    `json:"about,omitempty"`
	ResumeURL      string    `json:"resumeUrl,omitempty"`
	Instagram      string    `json:"instagram,omitempty"`
	LinkedIn       string    `json:"linkedin,omitempty"`
	IMDB           string    `json:"imdb,omitempty"`
	ArtStation     string    `json:"artstation,omitempty"`
	ShowInstagram  bool      `json:"showInstagram"`
	ShowLinkedIn   bool      `json:"showLinkedin"`
	ShowIMDB       bool      `json:"showImdb"`
	ShowArtStation bool      `json:"showArtstation"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Collection is a portfolio project owning an ordered media list.
type Collection struct {
	ID          string            `json:"id"`
	SiteID      string            `json:"siteId"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Software    []string          `json:"software"`
	Equipment   []string          `json:"equipment"`
	OrderIndex  int               `json:"orderIndex"`
	Media       []CollectionMedia `json:"media,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type CollectionMedia struct {
	ID           string    `json:"id"`
	CollectionID string    `json:"collectionId"`
	URL          string    `json:"url"`
	Type         MediaType `json:"type"`
	Filename     string    `json:"filename,omitempty"`
	OrderIndex   int       `json:"orderIndex"`
	CreatedAt    time.Time `json:"createdAt"`
}

type GalleryImage struct {
	ID         string    `json:"id"`
	SiteID     string    `json:"siteId"`
	URL        string    `json:"url"`
	Filename   string    `json:"filename,omitempty"`
	Type       MediaType `json:"type"`
	OrderIndex int       `json:"orderIndex"`
	CreatedAt  time.Time `json:"createdAt"`
}

type BTSImage struct {
	ID         string    `json:"id"`
	SiteID     string    `json:"siteId"`
	URL        string    `json:"url"`
	Filename   string    `json:"filename,omitempty"`
	OrderIndex int       `json:"orderIndex"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Post is a blog entry. Slug is derived from the title at creation time.
type Post struct {
	ID        string    `json:"id"`
	SiteID    string    `json:"siteId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Slug      string    `json:"slug"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Comment attaches to exactly one of a collection or a post. Ownership is
// author-based, not tenant-based: commenters post across sites.
type Comment struct {
	ID           string    `json:"id"`
	CollectionID string    `json:"collectionId,omitempty"`
	ContentID    string    `json:"contentId,omitempty"`
	AuthorID     string    `json:"authorId"`
	AuthorName   string    `json:"authorName"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Setting is a per-site key/value extension point. Keys are not unique per
// site; multiple rows may share one.
type Setting struct {
	ID        string    `json:"id"`
	SiteID    string    `json:"siteId"`
	Key       string    `json:"key"`
	URL       string    `json:"url,omitempty"`
	Value     string    `json:"value,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
