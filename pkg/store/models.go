package store

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"foliocms/pkg/domain"
)

// GORM models used for persistence.
type UserModel struct {
	ID           string    `gorm:"primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	SiteName     string    `gorm:"uniqueIndex;not null"`
	FullName     string
	IsPro        bool      `gorm:"not null;default:false"`
	IsAdmin      bool      `gorm:"not null;default:false"`
	CustomDomain string
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

type SiteModel struct {
	ID           string    `gorm:"primaryKey"` // equals the owner's site name
	OwnerID      string    `gorm:"not null;index"`
	OwnerEmail   string    `gorm:"not null"`
	Template     string
	CustomDomain string    `gorm:"index"`
	Status       string
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (SiteModel) TableName() string { return "sites" }

type ProfileModel struct {
	SiteID         string    `gorm:"primaryKey"`
	FullName       string
	About          string
	ResumeURL      string
	Instagram      string
	LinkedIn       string    `gorm:"column:linkedin"`
	IMDB           string    `gorm:"column:imdb"`
	ArtStation     string    `gorm:"column:artstation"`
	ShowInstagram  bool      `gorm:"not null;default:false"`
	ShowLinkedIn   bool      `gorm:"column:show_linkedin;not null;default:false"`
	ShowIMDB       bool      `gorm:"column:show_imdb;not null;default:false"`
	ShowArtStation bool      `gorm:"column:show_artstation;not null;default:false"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (ProfileModel) TableName() string { return "profiles" }

type CollectionModel struct {
	ID          string         `gorm:"primaryKey"`
	SiteID      string         `gorm:"not null;index"`
	Title       string         `gorm:"not null"`
	Description string
	Software    datatypes.JSON `gorm:"not null"`
	Equipment   datatypes.JSON `gorm:"not null"`
	OrderIndex  int            `gorm:"not null;default:0"`
	CreatedAt   time.Time      `gorm:"not null"`
	UpdatedAt   time.Time      `gorm:"not null"`
}

func (CollectionModel) TableName() string { return "collections" }

type CollectionMediaModel struct {
	ID           string    `gorm:"primaryKey"`
	CollectionID string    `gorm:"not null;index"`
	URL          string    `gorm:"not null"`
	Type         string    `gorm:"not null"`
	Filename     string
	OrderIndex   int       `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (CollectionMediaModel) TableName() string { return "collection_media" }

type GalleryImageModel struct {
	ID         string    `gorm:"primaryKey"`
	SiteID     string    `gorm:"not null;index"`
	URL        string    `gorm:"not null"`
	Filename   string
	Type       string
	OrderIndex int       `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (GalleryImageModel) TableName() string { return "gallery_images" }

type BTSImageModel struct {
	ID         string    `gorm:"primaryKey"`
	SiteID     string    `gorm:"not null;index"`
	URL        string    `gorm:"not null"`
	Filename   string
	OrderIndex int       `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (BTSImageModel) TableName() string { return "bts_images" }

type PostModel struct {
	ID        string    `gorm:"primaryKey"`
	SiteID    string    `gorm:"not null;index"`
	Title     string    `gorm:"not null"`
	Content   string    `gorm:"not null"`
	Slug      string    `gorm:"not null;index"`
	Published bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (PostModel) TableName() string { return "posts" }

type CommentModel struct {
	ID           string    `gorm:"primaryKey"`
	CollectionID string    `gorm:"index"`
	ContentID    string    `gorm:"index"`
	AuthorID     string    `gorm:"not null;index"`
	AuthorName   string    `gorm:"not null"`
	Text         string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (CommentModel) TableName() string { return "comments" }

type SettingModel struct {
	ID        string    `gorm:"primaryKey"`
	SiteID    string    `gorm:"not null;index"`
	Key       string    `gorm:"column:key;not null;index"`
	URL       string
	Value     string
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (SettingModel) TableName() string { return "settings" }

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		SiteName:     u.SiteName,
		FullName:     u.FullName,
		IsPro:        u.IsPro,
		IsAdmin:      u.IsAdmin,
		CustomDomain: u.CustomDomain,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		SiteName:     m.SiteName,
		FullName:     m.FullName,
		IsPro:        m.IsPro,
		IsAdmin:      m.IsAdmin,
		CustomDomain: m.CustomDomain,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func siteToModel(s domain.Site) SiteModel {
	return SiteModel{
		ID:           s.ID,
		OwnerID:      s.OwnerID,
		OwnerEmail:   s.OwnerEmail,
		Template:     s.Template,
		CustomDomain: s.CustomDomain,
		Status:       s.Status,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func siteFromModel(m SiteModel) domain.Site {
	return domain.Site{
		ID:           m.ID,
		OwnerID:      m.OwnerID,
		OwnerEmail:   m.OwnerEmail,
		Template:     m.Template,
		CustomDomain: m.CustomDomain,
		Status:       m.Status,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func profileToModel(p domain.Profile) ProfileModel {
	return ProfileModel{
		SiteID:         p.SiteID,
		FullName:       p.FullName,
		About:          p.About,
		ResumeURL:      p.ResumeURL,
		Instagram:      p.Instagram,
		LinkedIn:       p.LinkedIn,
		IMDB:           p.IMDB,
		ArtStation:     p.ArtStation,
		ShowInstagram:  p.ShowInstagram,
		ShowLinkedIn:   p.ShowLinkedIn,
		ShowIMDB:       p.ShowIMDB,
		ShowArtStation: p.ShowArtStation,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func profileFromModel(m ProfileModel) domain.Profile {
	return domain.Profile{
		SiteID:         m.SiteID,
		FullName:       m.FullName,
		About:          m.About,
		ResumeURL:      m.ResumeURL,
		Instagram:      m.Instagram,
		LinkedIn:       m.LinkedIn,
		IMDB:           m.IMDB,
		ArtStation:     m.ArtStation,
		ShowInstagram:  m.ShowInstagram,
		ShowLinkedIn:   m.ShowLinkedIn,
		ShowIMDB:       m.ShowIMDB,
		ShowArtStation: m.ShowArtStation,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func collectionToModel(c domain.Collection) CollectionModel {
	return CollectionModel{
		ID:          c.ID,
		SiteID:      c.SiteID,
		Title:       c.Title,
		Description: c.Description,
		Software:    stringsToJSON(c.Software),
		Equipment:   stringsToJSON(c.Equipment),
		OrderIndex:  c.OrderIndex,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func collectionFromModel(m CollectionModel) domain.Collection {
	return domain.Collection{
		ID:          m.ID,
		SiteID:      m.SiteID,
		Title:       m.Title,
		Description: m.Description,
		Software:    stringsFromJSON(m.Software),
		Equipment:   stringsFromJSON(m.Equipment),
		OrderIndex:  m.OrderIndex,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func mediaToModel(m domain.CollectionMedia) CollectionMediaModel {
	return CollectionMediaModel{
		ID:           m.ID,
		CollectionID: m.CollectionID,
		URL:          m.URL,
		Type:         string(m.Type),
		Filename:     m.Filename,
		OrderIndex:   m.OrderIndex,
		CreatedAt:    m.CreatedAt,
	}
}

func mediaFromModel(m CollectionMediaModel) domain.CollectionMedia {
	return domain.CollectionMedia{
		ID:           m.ID,
		CollectionID: m.CollectionID,
		URL:          m.URL,
		Type:         domain.MediaType(m.Type),
		Filename:     m.Filename,
		OrderIndex:   m.OrderIndex,
		CreatedAt:    m.CreatedAt,
	}
}

func galleryToModel(i domain.GalleryImage) GalleryImageModel {
	return GalleryImageModel{
		ID:         i.ID,
		SiteID:     i.SiteID,
		URL:        i.URL,
		Filename:   i.Filename,
		Type:       string(i.Type),
		OrderIndex: i.OrderIndex,
		CreatedAt:  i.CreatedAt,
	}
}

func galleryFromModel(m GalleryImageModel) domain.GalleryImage {
	return domain.GalleryImage{
		ID:         m.ID,
		SiteID:     m.SiteID,
		URL:        m.URL,
		Filename:   m.Filename,
		Type:       domain.MediaType(m.Type),
		OrderIndex: m.OrderIndex,
		CreatedAt:  m.CreatedAt,
	}
}

func btsToModel(i domain.BTSImage) BTSImageModel {
	return BTSImageModel{
		ID:         i.ID,
		SiteID:     i.SiteID,
		URL:        i.URL,
		Filename:   i.Filename,
		OrderIndex: i.OrderIndex,
		CreatedAt:  i.CreatedAt,
	}
}

func btsFromModel(m BTSImageModel) domain.BTSImage {
	return domain.BTSImage{
		ID:         m.ID,
		SiteID:     m.SiteID,
		URL:        m.URL,
		Filename:   m.Filename,
		OrderIndex: m.OrderIndex,
		CreatedAt:  m.CreatedAt,
	}
}

func postToModel(p domain.Post) PostModel {
	return PostModel{
		ID:        p.ID,
		SiteID:    p.SiteID,
		Title:     p.Title,
		Content:   p.Content,
		Slug:      p.Slug,
		Published: p.Published,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func postFromModel(m PostModel) domain.Post {
	return domain.Post{
		ID:        m.ID,
		SiteID:    m.SiteID,
		Title:     m.Title,
		Content:   m.Content,
		Slug:      m.Slug,
		Published: m.Published,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func commentToModel(c domain.Comment) CommentModel {
	return CommentModel{
		ID:           c.ID,
		CollectionID: c.CollectionID,
		ContentID:    c.ContentID,
		AuthorID:     c.AuthorID,
		AuthorName:   c.AuthorName,
		Text:         c.Text,
		CreatedAt:    c.CreatedAt,
	}
}

func commentFromModel(m CommentModel) domain.Comment {
	return domain.Comment{
		ID:           m.ID,
		CollectionID: m.CollectionID,
		ContentID:    m.ContentID,
		AuthorID:     m.AuthorID,
		AuthorName:   m.AuthorName,
		Text:         m.Text,
		CreatedAt:    m.CreatedAt,
	}
}

func settingToModel(s domain.Setting) SettingModel {
	return SettingModel{
		ID:        s.ID,
		SiteID:    s.SiteID,
		Key:       s.Key,
		URL:       s.URL,
		Value:     s.Value,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func settingFromModel(m SettingModel) domain.Setting {
	return domain.Setting{
		ID:        m.ID,
		SiteID:    m.SiteID,
		Key:       m.Key,
		URL:       m.URL,
		Value:     m.Value,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func stringsToJSON(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(data)
}

func stringsFromJSON(data datatypes.JSON) []string {
	if len(data) == 0 {
		return []string{}
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil || values == nil {
		return []string{}
	}
	return values
}
