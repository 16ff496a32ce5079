package domain

import "time"

// PublicSite is the unauthenticated, visibility-filtered projection of one
// tenant's content. Slice fields are always non-nil so clients receive empty
// lists rather than null.
type PublicSite struct {
	Site        PublicSiteInfo     `json:"site"`
	Profile     *PublicProfile     `json:"profile"`
	Collections []PublicCollection `json:"collections"`
	Gallery     []PublicImage      `json:"gallery"`
	BTS         []PublicImage      `json:"bts"`
	Posts       []PublicPost       `json:"posts"`
}

type PublicSiteInfo struct {
	ID           string `json:"id"`
	Template     string `json:"template,omitempty"`
	CustomDomain string `json:"customDomain,omitempty"`
}

// PublicProfile nulls each social link whose show flag is off.
type PublicProfile struct {
	FullName   string  `json:"fullName,omitempty"`
	About      string  `json:"about,omitempty"`
	ResumeURL  string  `json:"resumeUrl,omitempty"`
	Instagram  *string `json:"instagram"`
	LinkedIn   *string `json:"linkedin"`
	IMDB       *string `json:"imdb"`
	ArtStation *string `json:"artstation"`
}

type PublicCollection struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Software    []string      `json:"software"`
	Equipment   []string      `json:"equipment"`
	Media       []PublicMedia `json:"media"`
}

type PublicMedia struct {
	ID       string    `json:"id"`
	URL      string    `json:"url"`
	Type     MediaType `json:"type"`
	Filename string    `json:"filename,omitempty"`
}

type PublicImage struct {
	ID       string    `json:"id"`
	URL      string    `json:"url"`
	Type     MediaType `json:"type,omitempty"`
	Filename string    `json:"filename,omitempty"`
}

type PublicPost struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

// DomainLookup is the by-domain routing answer used by the edge.
type DomainLookup struct {
	SiteID       string `json:"siteId"`
	Template     string `json:"template,omitempty"`
	CustomDomain string `json:"customDomain,omitempty"`
	OwnerName    string `json:"ownerName,omitempty"`
}
