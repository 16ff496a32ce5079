package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"foliocms/pkg/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(
		&UserModel{}, &SiteModel{}, &ProfileModel{},
		&CollectionModel{}, &CollectionMediaModel{},
		&GalleryImageModel{}, &BTSImageModel{},
		&PostModel{}, &CommentModel{}, &SettingModel{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// CreateAccount inserts the user, site, and empty profile in one transaction
// so a partial signup never persists.
func (s *GormStore) CreateAccount(user domain.User, site domain.Site, profile domain.Profile) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		userModel := userToModel(user)
		if err := tx.Create(&userModel).Error; err != nil {
			return err
		}
		siteModel := siteToModel(site)
		if err := tx.Create(&siteModel).Error; err != nil {
			return err
		}
		profileModel := profileToModel(profile)
		return tx.Create(&profileModel).Error
	})
}

func (s *GormStore) GetUserByEmail(email string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

func (s *GormStore) GetUserByID(id string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

func (s *GormStore) GetUserBySiteName(siteName string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.Where("site_name = ?", siteName).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

func (s *GormStore) HasUserEmail(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormStore) HasSite(id string) (bool, error) {
	var count int64
	if err := s.db.Model(&SiteModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormStore) UpdateUser(id string, patch domain.UserPatch) error {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if patch.FullName != nil {
		updates["full_name"] = *patch.FullName
	}
	if patch.CustomDomain != nil {
		updates["custom_domain"] = *patch.CustomDomain
	}
	return s.db.Model(&UserModel{}).Where("id = ?", id).Updates(updates).Error
}

func (s *GormStore) SetUserPassword(id, passwordHash string) error {
	return s.db.Model(&UserModel{}).Where("id = ?", id).Updates(map[string]any{
		"password_hash": passwordHash,
		"updated_at":    time.Now().UTC(),
	}).Error
}

func (s *GormStore) GetSite(id string) (domain.Site, bool, error) {
	var model SiteModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Site{}, false, nil
		}
		return domain.Site{}, false, err
	}
	return siteFromModel(model), true, nil
}

// GetSiteByCustomDomain matches either the bare or the www-prefixed form and
// returns the owning user alongside the site.
func (s *GormStore) GetSiteByCustomDomain(domainName, wwwDomain string) (domain.Site, domain.User, bool, error) {
	var siteModel SiteModel
	err := s.db.Where("custom_domain = ? OR custom_domain = ?", domainName, wwwDomain).First(&siteModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Site{}, domain.User{}, false, nil
		}
		return domain.Site{}, domain.User{}, false, err
	}
	var userModel UserModel
	if err := s.db.First(&userModel, "id = ?", siteModel.OwnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return siteFromModel(siteModel), domain.User{}, true, nil
		}
		return domain.Site{}, domain.User{}, false, err
	}
	return siteFromModel(siteModel), userFromModel(userModel), true, nil
}

func (s *GormStore) ListSitesWithDomain() ([]domain.Site, error) {
	var models []SiteModel
	if err := s.db.Where("custom_domain IS NOT NULL AND custom_domain <> ''").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Site, 0, len(models))
	for _, m := range models {
		res = append(res, siteFromModel(m))
	}
	return res, nil
}

func (s *GormStore) UpdateSite(id string, patch domain.SitePatch) error {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if patch.Template != nil {
		updates["template"] = *patch.Template
	}
	if patch.CustomDomain != nil {
		updates["custom_domain"] = *patch.CustomDomain
	}
	return s.db.Model(&SiteModel{}).Where("id = ?", id).Updates(updates).Error
}

func (s *GormStore) SetSiteDomainByOwner(ownerID, customDomain string) error {
	return s.db.Model(&SiteModel{}).Where("owner_id = ?", ownerID).Updates(map[string]any{
		"custom_domain": customDomain,
		"updated_at":    time.Now().UTC(),
	}).Error
}

func (s *GormStore) GetProfile(siteID string) (domain.Profile, bool, error) {
	var model ProfileModel
	if err := s.db.First(&model, "site_id = ?", siteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Profile{}, false, nil
		}
		return domain.Profile{}, false, err
	}
	return profileFromModel(model), true, nil
}

// UpsertProfile inserts or fully replaces the single profile row for a site.
func (s *GormStore) UpsertProfile(p domain.Profile) error {
	model := profileToModel(p)
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "site_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"full_name", "about", "resume_url",
			"instagram", "linkedin", "imdb", "artstation",
			"show_instagram", "show_linkedin", "show_imdb", "show_artstation",
			"updated_at",
		}),
	}).Create(&model).Error
}

func (s *GormStore) GetCollection(id string) (domain.Collection, bool, error) {
	var model CollectionModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Collection{}, false, nil
		}
		return domain.Collection{}, false, err
	}
	return collectionFromModel(model), true, nil
}

func (s *GormStore) ListCollectionsBySite(siteID string, limit int) ([]domain.Collection, error) {
	var models []CollectionModel
	tx := s.db.Where("site_id = ?", siteID).Order("order_index, created_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&models).Error; err != nil {
		return nil, err
	}
	return collectionsFromModels(models), nil
}

func (s *GormStore) ListCollections(order CollectionOrder, limit int) ([]domain.Collection, error) {
	dir := "ASC"
	if order.Desc {
		dir = "DESC"
	}
	var models []CollectionModel
	tx := s.db.Order(clause.OrderByColumn{
		Column: clause.Column{Name: order.Column},
		Desc:   dir == "DESC",
	})
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&models).Error; err != nil {
		return nil, err
	}
	return collectionsFromModels(models), nil
}

func collectionsFromModels(models []CollectionModel) []domain.Collection {
	res := make([]domain.Collection, 0, len(models))
	for _, m := range models {
		res = append(res, collectionFromModel(m))
	}
	return res
}

// CreateCollection inserts the collection and any initial media rows together.
func (s *GormStore) CreateCollection(c domain.Collection) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		model := collectionToModel(c)
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		for _, media := range c.Media {
			mediaModel := mediaToModel(media)
			if err := tx.Create(&mediaModel).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormStore) UpdateCollection(id string, patch domain.CollectionPatch) error {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Software != nil {
		updates["software"] = stringsToJSON(*patch.Software)
	}
	if patch.Equipment != nil {
		updates["equipment"] = stringsToJSON(*patch.Equipment)
	}
	if patch.OrderIndex != nil {
		updates["order_index"] = *patch.OrderIndex
	}
	return s.db.Model(&CollectionModel{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteCollection removes the collection and its media rows.
func (s *GormStore) DeleteCollection(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&CollectionMediaModel{}, "collection_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&CollectionModel{}, "id = ?", id).Error
	})
}

func (s *GormStore) ListCollectionMedia(collectionID string) ([]domain.CollectionMedia, error) {
	var models []CollectionMediaModel
	if err := s.db.Where("collection_id = ?", collectionID).Order("order_index").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.CollectionMedia, 0, len(models))
	for _, m := range models {
		res = append(res, mediaFromModel(m))
	}
	return res, nil
}

func (s *GormStore) MaxMediaOrderIndex(collectionID string) (int, error) {
	var max *int
	err := s.db.Model(&CollectionMediaModel{}).
		Where("collection_id = ?", collectionID).
		Select("MAX(order_index)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return -1, nil
	}
	return *max, nil
}

func (s *GormStore) AddCollectionMedia(m domain.CollectionMedia) error {
	model := mediaToModel(m)
	return s.db.Create(&model).Error
}

func (s *GormStore) ListGalleryImages(siteID string) ([]domain.GalleryImage, error) {
	var models []GalleryImageModel
	if err := s.db.Where("site_id = ?", siteID).Order("order_index, created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.GalleryImage, 0, len(models))
	for _, m := range models {
		res = append(res, galleryFromModel(m))
	}
	return res, nil
}

func (s *GormStore) GetGalleryImage(id string) (domain.GalleryImage, bool, error) {
	var model GalleryImageModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.GalleryImage{}, false, nil
		}
		return domain.GalleryImage{}, false, err
	}
	return galleryFromModel(model), true, nil
}

func (s *GormStore) CreateGalleryImage(img domain.GalleryImage) error {
	model := galleryToModel(img)
	return s.db.Create(&model).Error
}

func (s *GormStore) DeleteGalleryImage(id string) error {
	return s.db.Delete(&GalleryImageModel{}, "id = ?", id).Error
}

func (s *GormStore) ListBTSImages(siteID string) ([]domain.BTSImage, error) {
	var models []BTSImageModel
	if err := s.db.Where("site_id = ?", siteID).Order("order_index, created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.BTSImage, 0, len(models))
	for _, m := range models {
		res = append(res, btsFromModel(m))
	}
	return res, nil
}

func (s *GormStore) GetBTSImage(id string) (domain.BTSImage, bool, error) {
	var model BTSImageModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.BTSImage{}, false, nil
		}
		return domain.BTSImage{}, false, err
	}
	return btsFromModel(model), true, nil
}

func (s *GormStore) CreateBTSImage(img domain.BTSImage) error {
	model := btsToModel(img)
	return s.db.Create(&model).Error
}

func (s *GormStore) DeleteBTSImage(id string) error {
	return s.db.Delete(&BTSImageModel{}, "id = ?", id).Error
}

func (s *GormStore) ListPosts(siteID string, publishedOnly bool) ([]domain.Post, error) {
	var models []PostModel
	tx := s.db.Where("site_id = ?", siteID)
	if publishedOnly {
		tx = tx.Where("published = ?", true)
	}
	if err := tx.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Post, 0, len(models))
	for _, m := range models {
		res = append(res, postFromModel(m))
	}
	return res, nil
}

func (s *GormStore) GetPost(id string) (domain.Post, bool, error) {
	var model PostModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Post{}, false, nil
		}
		return domain.Post{}, false, err
	}
	return postFromModel(model), true, nil
}

func (s *GormStore) CreatePost(p domain.Post) error {
	model := postToModel(p)
	return s.db.Create(&model).Error
}

func (s *GormStore) UpdatePost(id string, patch domain.PostPatch) error {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Content != nil {
		updates["content"] = *patch.Content
	}
	if patch.Published != nil {
		updates["published"] = *patch.Published
	}
	return s.db.Model(&PostModel{}).Where("id = ?", id).Updates(updates).Error
}

func (s *GormStore) DeletePost(id string) error {
	return s.db.Delete(&PostModel{}, "id = ?", id).Error
}

func (s *GormStore) ListCommentsByCollection(collectionID string) ([]domain.Comment, error) {
	return s.listComments("collection_id = ?", collectionID)
}

func (s *GormStore) ListCommentsByContent(contentID string) ([]domain.Comment, error) {
	return s.listComments("content_id = ?", contentID)
}

func (s *GormStore) listComments(cond string, arg any) ([]domain.Comment, error) {
	var models []CommentModel
	if err := s.db.Where(cond, arg).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Comment, 0, len(models))
	for _, m := range models {
		res = append(res, commentFromModel(m))
	}
	return res, nil
}

func (s *GormStore) GetComment(id string) (domain.Comment, bool, error) {
	var model CommentModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Comment{}, false, nil
		}
		return domain.Comment{}, false, err
	}
	return commentFromModel(model), true, nil
}

func (s *GormStore) CreateComment(c domain.Comment) error {
	model := commentToModel(c)
	return s.db.Create(&model).Error
}

func (s *GormStore) DeleteComment(id string) error {
	return s.db.Delete(&CommentModel{}, "id = ?", id).Error
}

func (s *GormStore) ListSettings(siteID, key string) ([]domain.Setting, error) {
	var models []SettingModel
	tx := s.db.Where("site_id = ?", siteID)
	if key != "" {
		tx = tx.Where("key = ?", key)
	}
	if err := tx.Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Setting, 0, len(models))
	for _, m := range models {
		res = append(res, settingFromModel(m))
	}
	return res, nil
}

func (s *GormStore) GetSetting(id string) (domain.Setting, bool, error) {
	var model SettingModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Setting{}, false, nil
		}
		return domain.Setting{}, false, err
	}
	return settingFromModel(model), true, nil
}

func (s *GormStore) CreateSetting(setting domain.Setting) error {
	model := settingToModel(setting)
	return s.db.Create(&model).Error
}

func (s *GormStore) UpdateSetting(id string, patch domain.SettingPatch) error {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if patch.URL != nil {
		updates["url"] = *patch.URL
	}
	if patch.Value != nil {
		updates["value"] = *patch.Value
	}
	return s.db.Model(&SettingModel{}).Where("id = ?", id).Updates(updates).Error
}

func (s *GormStore) DeleteSetting(id string) error {
	return s.db.Delete(&SettingModel{}, "id = ?", id).Error
}
