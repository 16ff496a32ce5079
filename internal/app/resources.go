package app

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"foliocms/internal/util"
	"foliocms/pkg/domain"
	"foliocms/pkg/store"
)

// Query carries the recognized query parameters of a data-plane request.
// Handlers ignore the fields they do not use.
type Query struct {
	SiteID       string
	SiteName     string
	Key          string
	CollectionID string
	ContentID    string
	OrderBy      string
	OrderDir     string
	Limit        int
}

// Each resource kind implements the capability interfaces for the verbs it
// supports. A verb without a matching interface is not part of that kind's
// surface and dispatch reports not found, the same as an unknown path.
type resource interface {
	kind() domain.Kind
}

type lister interface {
	list(p *domain.Principal, q Query) (any, error)
}

type getter interface {
	get(p *domain.Principal, id string) (any, error)
}

type creator interface {
	create(p *domain.Principal, body []byte) (any, error)
}

type updater interface {
	update(p *domain.Principal, id string, body []byte) (any, error)
}

type deleter interface {
	delete(p *domain.Principal, id string) error
}

func buildResources(a *App) map[domain.Kind]resource {
	list := []resource{
		&profilesResource{app: a},
		&collectionsResource{app: a},
		&galleryResource{app: a},
		&btsResource{app: a},
		&postsResource{app: a},
		&commentsResource{app: a},
		&settingsResource{app: a},
		&usersResource{app: a},
		&sitesResource{app: a},
	}
	m := make(map[domain.Kind]resource, len(list))
	for _, r := range list {
		m[r.kind()] = r
	}
	return m
}

// ListResources dispatches a collection read for the given kind.
func (a *App) ListResources(kind domain.Kind, p *domain.Principal, q Query) (any, error) {
	r, ok := a.resources[kind].(lister)
	if !ok {
		return nil, notFoundError("not found")
	}
	return r.list(p, q)
}

// GetResource dispatches a single-row read for the given kind.
func (a *App) GetResource(kind domain.Kind, p *domain.Principal, id string) (any, error) {
	r, ok := a.resources[kind].(getter)
	if !ok {
		return nil, notFoundError("not found")
	}
	return r.get(p, id)
}

// CreateResource dispatches a create for the given kind. Mutations always
// require a principal.
func (a *App) CreateResource(kind domain.Kind, p *domain.Principal, body []byte) (any, error) {
	r, ok := a.resources[kind].(creator)
	if !ok {
		return nil, notFoundError("not found")
	}
	if p == nil {
		return nil, unauthenticatedError()
	}
	return r.create(p, body)
}

// UpdateResource dispatches an update for the given kind.
func (a *App) UpdateResource(kind domain.Kind, p *domain.Principal, id string, body []byte) (any, error) {
	r, ok := a.resources[kind].(updater)
	if !ok {
		return nil, notFoundError("not found")
	}
	if p == nil {
		return nil, unauthenticatedError()
	}
	return r.update(p, id, body)
}

// DeleteResource dispatches a delete for the given kind.
func (a *App) DeleteResource(kind domain.Kind, p *domain.Principal, id string) error {
	r, ok := a.resources[kind].(deleter)
	if !ok {
		return notFoundError("not found")
	}
	if p == nil {
		return unauthenticatedError()
	}
	return r.delete(p, id)
}

func decodeBody(body []byte, dst any) error {
	if len(body) == 0 {
		return validationError("request body is required")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return validationError("invalid JSON body")
	}
	return nil
}

// canWriteSite is the tenant ownership check applied to every site-scoped
// mutation after the row has been re-read.
func canWriteSite(p *domain.Principal, siteID string) bool {
	return p.IsAdmin || p.SiteName == siteID
}

func normalizeMediaType(t string) domain.MediaType {
	switch domain.MediaType(t) {
	case domain.MediaVideo:
		return domain.MediaVideo
	case domain.MediaModel:
		return domain.MediaModel
	default:
		return domain.MediaImage
	}
}

// profiles

type profilesResource struct {
	app *App
}

func (r *profilesResource) kind() domain.Kind { return domain.KindProfiles }

// Profiles are keyed by site, so a listing only makes sense for one site.
func (r *profilesResource) list(p *domain.Principal, q Query) (any, error) {
	if q.SiteID == "" {
		return nil, validationError("siteId is required")
	}
	return r.get(p, q.SiteID)
}

func (r *profilesResource) get(_ *domain.Principal, id string) (any, error) {
	profile, ok, err := r.app.store.GetProfile(id)
	if err != nil {
		return nil, internalError(err)
	}
	if !ok {
		return nil, notFoundError("profile not found")
	}
	return profile, nil
}

type profileRequest struct {
	FullName       string  `json:"fullName"`
	About          string  `json:"about"`
	ResumeURL      *string `json:"resumeUrl"`
	Instagram      string  `json:"instagram"`
	LinkedIn       string  `json:"linkedin"`
	IMDB           string  `json:"imdb"`
	ArtStation     string  `json:"artstation"`
	ShowInstagram  bool    `json:"showInstagram"`
	ShowLinkedIn   bool    `json:"showLinkedin"`
	ShowIMDB       bool    `json:"showImdb"`
	ShowArtStation bool    `json:"showArtstation"`
}

func (r *profilesResource) create(p *domain.Principal, body []byte) (any, error) {
	return r.upsert(p, p.SiteName, body)
}

func (r *profilesResource) update(p *domain.Principal, id string, body []byte) (any, error) {
	return r.upsert(p, id, body)
}

// upsert replaces the profile row for a site. A nil resumeUrl keeps the
// stored one; everything else is overwritten.
func (r *profilesResource) upsert(p *domain.Principal, siteID string, body []byte) (any, error) {
	if !canWriteSite(p, siteID) {
		return nil, forbiddenError()
	}
	var req profileRequest
	if err := decodeBody(body, &req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	profile := domain.Profile{
		SiteID:         siteID,
		FullName:       req.FullName,
		About:          req.About,
		Instagram:      req.Instagram,
		LinkedIn:       req.LinkedIn,
		IMDB:           req.IMDB,
		ArtStation:     req.ArtStation,
		ShowInstagram:  req.ShowInstagram,
		ShowLinkedIn:   req.ShowLinkedIn,
		ShowIMDB:       req.ShowIMDB,
		ShowArtStation: req.ShowArtStation,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.ResumeURL != nil {
		profile.ResumeURL = *req.ResumeURL
	}
	if existing, ok, err := r.app.store.GetProfile(siteID); err != nil {
		return nil, internalError(err)
	} else if ok {
		profile.CreatedAt = existing.CreatedAt
		if req.ResumeURL == nil {
			profile.ResumeURL = existing.ResumeURL
		}
	}
	if err := r.app.store.UpsertProfile(profile); err != nil {
		return nil, internalError(err)
	}
	return profile, nil
}

// collections

type collectionsResource struct {
	app *App
}

func (r *collectionsResource) kind() domain.Kind { return domain.KindCollections }

// globalOrderColumns is the allow-list for ordering the cross-site feed.
// Anything else silently falls back to created_at descending.
var globalOrderColumns = map[string]string{
	"created_at": "created_at",
	"createdAt":  "created_at",
	"updated_at": "updated_at",
	"updatedAt":  "updated_at",
	"title":      "title",
}

func (r *collectionsResource) list(_ *domain.Principal, q Query) (any, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	var (
		collections []domain.Collection
		err         error
	)
	if q.SiteID != "" {
		collections, err = r.app.store.ListCollectionsBySite(q.SiteID, limit)
	} else {
		order := store.CollectionOrder{Column: "created_at", Desc: true}
		if col, ok := globalOrderColumns[q.OrderBy]; ok {
			order.Column = col
			order.Desc = !strings.EqualFold(q.OrderDir, "ASC")
		}
		collections, err = r.app.store.ListCollections(order, limit)
	}
	if err != nil {
		return nil, internalError(err)
	}
	for i := range collections {
		media, err := r.app.store.ListCollectionMedia(collections[i].ID)
		if err != nil {
			return nil, internalError(err)
		}
		collections[i].Media = media
	}
	return collections, nil
}

func (r *collectionsResource) get(_ *domain.Principal, id string) (any, error) {
	collection, ok, err := r.app.store.GetCollection(id)
	if err != nil {
		return nil, internalError(err)
	}
	if !ok {
		return nil, notFoundError("collection not found")
	}
	media, err := r.app.store.ListCollectionMedia(id)
	if err != nil {
		return nil, internalError(err)
	}
	collection.Media = media
	return collection, nil
}

type mediaRequest struct {
	URL      string `json:"url"`
	Type     string `json:"type"`
	Filename string `json:"filename"`
}

type collectionCreateRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Software    []string       `json:"software"`
	Equipment   []string       `json:"equipment"`
	OrderIndex  int            `json:"orderIndex"`
	Media       []mediaRequest `json:"media"`
}

func (r *collectionsResource) create(p *domain.Principal, body []byte) (any, error) {
	var req collectionCreateRequest
	if err := decodeBody(body, &req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, validationError("title is required")
	}

	now := time.Now().UTC()
	collection := domain.Collection{
		ID:          util.NewID(),
		SiteID:      p.SiteName,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Software:    req.Software,
		Equipment:   req.Equipment,
		OrderIndex:  req.OrderIndex,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i, m := range req.Media {
		if m.URL == "" {
			continue
		}
		collection.Media = append(collection.Media, domain.CollectionMedia{
			ID:           util.NewID(),
			CollectionID: collection.ID,
			URL:          m.URL,
			Type:         normalizeMediaType(m.Type),
			Filename:     m.Filename,
			OrderIndex:   i,
			CreatedAt:    now,
		})
	}
	if err := r.app.store.CreateCollection(collection); err != nil {
		return nil, internalError(err)
	}
	return collection, nil
}

type collectionUpdateRequest struct {
	domain.CollectionPatch
	Media []mediaRequest `json:"media"`
}

func (r *collectionsResource) update(p *domain.Principal, id string, body []byte) (any, error) {
	collection, ok, err := r.app.store.GetCollection(id)
	if err != nil {
		return nil, internalError(err)
	}
	if !ok {
		return nil, notFoundError("collection not found")
	}
	if !canWriteSite(p, collection.SiteID) {
		return nil, forbiddenError()
	}

	var req collectionUpdateRequest
	if err := decodeBody(body, &req); err != nil {
		return nil, err
	}
	if !req.CollectionPatch.Empty() {
		if err := r.app.store.UpdateCollection(id, req.CollectionPatch); err != nil {
			return nil, internalError(err)
		}
	}
	// New media rows append after the current tail; existing rows are never
	// reordered by an update.
	if len(req.Media) > 0 {
		max, err := r.app.store.MaxMediaOrderIndex(id)
		if err != nil {
			return nil, internalError(err)
		}
		now := time.Now().UTC()
		for _, m := range req.Media {
			if m.URL == "" {
				continue
			}
			max++
			media := domain.CollectionMedia{
				ID:           util.NewID(),
				CollectionID: id,
				URL:          m.URL,
				Type:         normalizeMediaType(m.Type),
				Filename:     m.Filename,
				OrderIndex:   max,
				CreatedAt:    now,
			}
			if err := r.app.store.AddCollectionMedia(media); err != nil {
				return nil, internalError(err)
			}
		}
	}
	return r.get(p, id)
}

func (r *collectionsResource) delete(p *domain.Principal, id string) error {
	collection, ok, err := r.app.store.GetCollection(id)
	if err != nil {
		return internalError(err)
	}
	if !ok {
		return notFoundError("collection not found")
	}
	if !canWriteSite(p, collection.SiteID) {
		return forbiddenError()
	}
	if err := r.app.store.DeleteCollection(id); err != nil {
		return internalError(err)
	}
	return nil
}

// gallery

type galleryResource struct {
	app *App
}

func (r *galleryResource) kind() domain.Kind { return domain.KindGallery }

func (r *galleryResource) list(_ *domain.Principal, q Query) (any, error) {
	if q.SiteID == "" {
		return nil, validationError("siteId is required")
	}
	images, err := r.app.store.ListGalleryImages(q.SiteID)
	if err != nil {
		return nil, internalError(err)
	}
	return images, nil
}

type imageRequest struct {
	URL        string `json:"url"`
	Filename   string `json:"filename"`
	Type       string `json:"type"`
	OrderIndex int    `json:"orderIndex"`
}

func (r *galleryResource) create(p *domain.Principal, body []byte) (any, error) {
	var req imageRequest
	if err := decodeBody(body, &req); err != nil {
		return nil, err
	}
	if req.URL == "" {
		return nil, validationError("url is required")
	}
	img := domain.GalleryImage{
		ID:         util.NewID(),
		SiteID:     p.SiteName,
		URL:        req.URL,
		Filename:   req.Filename,
		Type:       normalizeMediaType(req.Type),
		OrderIndex: req.OrderIndex,
		CreatedAt:  time.Now().UTC(),
	}
	if err := r.app.store.CreateGalleryImage(img); err != nil {
		return nil, internalError(err)
	}
	return img, nil
}

func (r *galleryResource) delete(p *domain.Principal, id string) error {
	img, ok, err := r.app.store.GetGalleryImage(id)
	if err != nil {
		return internalError(err)
	}
	if !ok {
		return notFoundError("image not found")
	}
	if !canWriteSite(p, img.SiteID) {
		return forbiddenError()
	}
	if err := r.app.store.DeleteGalleryImage(id); err != nil {
		return internalError(err)
	}
	return nil
}

// behind-the-scenes images

type btsResource struct {
	app *App
}

func (r *btsResource) kind() domain.Kind { return domain.KindBTS }

func (r *btsResource) list(_ *domain.Principal, q Query) (any, error) {
	if q.SiteID == "" {
		return nil, validationError("siteId is required")
	}
	images, err := r.app.store.ListBTSImages(q.SiteID)
	if err != nil {
		return nil, internalError(err)
	}
	return images, nil
}

func (r *btsResource) create(p *domain.Principal, body []byte) (any, error) {
	var req imageRequest
	if err := decodeBody(body, &req); err != nil {
		return nil, err
	}
	if req.URL == "" {
		return nil, validationError("url is required")
	}
	img := domain.BTSImage{
		ID:         util.NewID(),
		SiteID:     p.SiteName,
		URL:        req.URL,
		Filename:   req.Filename,
		OrderIndex: req.OrderIndex,
		CreatedAt:  time.Now().UTC(),
	}
	if err := r.app.store.CreateBTSImage(img); err != nil {
		return nil, internalError(err)
	}
	return img, nil
}

func (r *btsResource) delete(p *domain.Principal, id string) error {
	img, ok, err := r.app.store.GetBTSImage(id)
	if err != nil {
		return internalError(err)
	}
	if !ok {
		return notFoundError("image not found")
	}
	if !canWriteSite(p, img.SiteID) {
		return forbiddenError()
	}
	if err := r.app.store.DeleteBTSImage(id); err != nil {
		return internalError(err)
	}
	return nil
}

// posts

type postsResource struct {
	app *App
}

func (r *postsResource) kind() domain.Kind { return domain.KindPosts }

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases the title, collapses every non-alphanumeric run into a
// single hyphen, and trims hyphens from both ends.
func slugify(title string) string {
	return strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(title), "-"), "-")
}

func (r *postsResource) list(_ *domain.Principal, q Query) (any, error) {
	if q.SiteID == "" {
		return nil, validationError("siteId is required")
	}
	posts, err := r.app.store.ListPosts(q.SiteID, false)
	if err != nil {
		return nil, internalError(err)
	}
	return posts, nil
}

func (r *postsResource) get(_ *domain.Principal, id string) (any, error) {
	post, ok, err := r.app.store.GetPost(id)
	if err != nil {
		return nil, internalError(err)
	}
	if !ok {
		return nil, notFoundError("post not found")
	}
	return post, nil
}

type postCreateRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published *bool  `json:"published"`
}

func (r *postsResource) create(p *domain.Principal, body []byte) (any, error) {
	var req postCreateRequest
	if err := decodeBody(body, &req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, validationError("title is required")
	}
	now := time.Now().UTC()
	post := domain.Post{
		ID:        util.NewID(),
		SiteID:    p.SiteName,
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		Slug:      slugify(req.Title),
		Published: req.Published == nil || *req.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.app.store.CreatePost(post); err != nil {
		return nil, internalError(err)
	}
	return post, nil
}

func (r *postsResource) update(p *domain.Principal, id string, body []byte) (any, error) {
	post, ok, err := r.app.store.GetPost(id)
	if err != nil {
		return nil, internalError(err)
	}
	if !ok {
		return nil, notFoundError("post not found")
	}
	if !canWriteSite(p, post.SiteID) {
		return nil, forbiddenError()
	}
	var patch domain.PostPatch
	if err := decodeBody(body, &patch); err != nil {
		return nil, err
	}
	if !patch.Empty() {
		if err := r.app.store.UpdatePost(id, patch); err != nil {
			return nil, internalError(err)
		}
	}
	return r.get(p, id)
}

func (r *postsResource) delete(p *domain.Principal, id string) error {
	post, ok, err := r.app.store.GetPost(id)
	if err != nil {
		return internalError(err)
	}
	if !ok {
		return notFoundError("post not found")
	}
	if !canWriteSite(p, post.SiteID) {
		return forbiddenError()
	}
	if err := r.app.store.DeletePost(id); err != nil {
		return internalError(err)
	}
	return nil
}

// comments

type commentsResource struct {
	app *App
}

func (r *commentsResource) kind() domain.Kind { return domain.KindComments }

func (r *commentsResource) list(_ *domain.Principal, q Query) (any, error) {
	switch {
	case q.CollectionID != "":
		comments, err := r.app.store.ListCommentsByCollection(q.CollectionID)
		if err != nil {
			return nil, internalError(err)
		}
		return comments, nil
	case q.ContentID != "":
		comments, err := r.app.store.ListCommentsByContent(q.ContentID)
		if err != nil {
			return nil, internalError(err)
		}
		return comments, nil
	default:
		return nil, validationError("collectionId or contentId is required")
	}
}

func (r *commentsResource) get(_ *domain.Principal, id string) (any, error) {
	comment, ok, err := r.app.store.GetComment(id)
	if err != nil {
		return nil, internalError(err)
	}
	if !ok {
		return nil, notFoundError("comment not found")
	}
	return comment, nil
}

type commentCreateRequest struct {
	CollectionID string `json:"collectionId"`
	ContentID    string `json:"contentId"`
	Text         string `json:"text"`
	AuthorName   string `json:"authorName"`
}

func (r *commentsResource) create(p *domain.Principal, body []byte) (any, error) {
	var req commentCreateRequest
	if err := decodeBody(body, &req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, validationError("text is required")
	}
	if (req.CollectionID == "") == (req.ContentID == "") {
		return nil, validationError("exactly one of collectionId or contentId is required")
	}
	authorName := strings.TrimSpace(req.AuthorName)
	if authorName == "" {
		authorName = p.SiteName
	}
	if authorName == "" {
		authorName = p.Email
	}
	comment := domain.Comment{
		ID:           util.NewID(),
		CollectionID: req.CollectionID,
		ContentID:    req.ContentID,
		AuthorID:     p.UserID,
		AuthorName:   authorName,
		Text:         strings.TrimSpace(req.Text),
		CreatedAt:    time.Now().UTC(),
	}
	if err := r.app.store.CreateComment(comment); err != nil {
		return nil, internalError(err)
	}
	return comment, nil
}

// delete is author-scoped rather than site-scoped: a comment belongs to the
// user who wrote it, wherever it was posted.
func (r *commentsResource) delete(p *domain.Principal, id string) error {
	comment, ok, err := r.app.store.GetComment(id)
	if err != nil {
		return internalError(err)
	}
	if !ok {
		return notFoundError("comment not found")
	}
	if !p.IsAdmin && comment.AuthorID != p.UserID {
		return forbiddenError()
	}
	if err := r.app.store.DeleteComment(id); err != nil {
		return internalError(err)
	}
	return nil
}

// settings

type settingsResource struct {
	app *App
}

func (r *settingsResource) kind() domain.Kind { return domain.KindSettings }

func (r *settingsResource) list(_ *domain.Principal, q Query) (any, error) {
	if q.SiteID == "" {
		return nil, validationError("siteId is required")
	}
	settings, err := r.app.store.ListSettings(q.SiteID, q.Key)
	if err != nil {
		return nil, internalError(err)
	}
	return settings, nil
}

func (r *settingsResource) get(_ *domain.Principal, id string) (any, error) {
	setting, ok, err := r.app.store.GetSetting(id)
	if err != nil {
		return nil, internalError(err)
	}
	if !ok {
		return nil, notFoundError("setting not found")
	}
	return setting, nil
}

type settingCreateRequest struct {
	SiteID string `json:"siteId"`
	Key    string `json:"key"`
	URL    string `json:"url"`
	Value  string `json:"value"`
}

func (r *settingsResource) create(p *domain.Principal, body []byte) (any, error) {
	var req settingCreateRequest
	if err := decodeBody(body, &req); err != nil {
		return nil, err
	}
	if req.Key == "" {
		return nil, validationError("key is required")
	}
	siteID := p.SiteName
	if req.SiteID != "" && req.SiteID != siteID {
		if !p.IsAdmin {
			return nil, forbiddenError()
		}
		siteID = req.SiteID
	}
	now := time.Now().UTC()
	setting := domain.Setting{
		ID:        util.NewID(),
		SiteID:    siteID,
		Key:       req.Key,
		URL:       req.URL,
		Value:     req.Value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.app.store.CreateSetting(setting); err != nil {
		return nil, internalError(err)
	}
	return setting, nil
}

func (r *settingsResource) update(p *domain.Principal, id string, body []byte) (any, error) {
	setting, ok, err := r.app.store.GetSetting(id)
	if err != nil {
		return nil, internalError(err)
	}
	if !ok {
		return nil, notFoundError("setting not found")
	}
	if !canWriteSite(p, setting.SiteID) {
		return nil, forbiddenError()
	}
	var patch domain.SettingPatch
	if err := decodeBody(body, &patch); err != nil {
		return nil, err
	}
	if !patch.Empty() {
		if err := r.app.store.UpdateSetting(id, patch); err != nil {
			return nil, internalError(err)
		}
	}
	return r.get(p, id)
}

func (r *settingsResource) delete(p *domain.Principal, id string) error {
	setting, ok, err := r.app.store.GetSetting(id)
	if err != nil {
		return internalError(err)
	}
	if !ok {
		return notFoundError("setting not found")
	}
	if !canWriteSite(p, setting.SiteID) {
		return forbiddenError()
	}
	if err := r.app.store.DeleteSetting(id); err != nil {
		return internalError(err)
	}
	return nil
}

// users

type usersResource struct {
	app *App
}

func (r *usersResource) kind() domain.Kind { return domain.KindUsers }

// publicUser is the lookup shape exposed without authentication. It leaks
// nothing beyond what the public site itself shows.
type publicUser struct {
	ID       string `json:"id"`
	SiteName string `json:"siteName"`
	IsPro    bool   `json:"isPro"`
}

func (r *usersResource) list(_ *domain.Principal, q Query) (any, error) {
	if q.SiteName == "" {
		return nil, validationError("siteName is required")
	}
	user, ok, err := r.app.store.GetUserBySiteName(q.SiteName)
	if err != nil {
		return nil, internalError(err)
	}
	if !ok {
		return nil, notFoundError("user not found")
	}
	return []publicUser{{ID: user.ID, SiteName: user.SiteName, IsPro: user.IsPro}}, nil
}

func (r *usersResource) get(p *domain.Principal, id string) (any, error) {
	if p == nil {
		return nil, unauthenticatedError()
	}
	if !p.IsAdmin && p.UserID != id {
		return nil, forbiddenError()
	}
	user, ok, err := r.app.store.GetUserByID(id)
	if err != nil {
		return nil, internalError(err)
	}
	if !ok {
		return nil, notFoundError("user not found")
	}
	return user, nil
}

func (r *usersResource) update(p *domain.Principal, id string, body []byte) (any, error) {
	if !p.IsAdmin && p.UserID != id {
		return nil, forbiddenError()
	}
	var patch domain.UserPatch
	if err := decodeBody(body, &patch); err != nil {
		return nil, err
	}
	if !patch.Empty() {
		if err := r.app.store.UpdateUser(id, patch); err != nil {
			return nil, internalError(err)
		}
	}
	// The site row mirrors the owner's custom domain so public lookups
	// never need a join through users.
	if patch.CustomDomain != nil {
		if err := r.app.store.SetSiteDomainByOwner(id, *patch.CustomDomain); err != nil {
			return nil, internalError(err)
		}
	}
	return r.get(p, id)
}

// sites

type sitesResource struct {
	app *App
}

func (r *sitesResource) kind() domain.Kind { return domain.KindSites }

func (r *sitesResource) get(_ *domain.Principal, id string) (any, error) {
	site, ok, err := r.app.store.GetSite(id)
	if err != nil {
		return nil, internalError(err)
	}
	if !ok {
		return nil, notFoundError("site not found")
	}
	return site, nil
}

// Site ownership is checked against the owner id, not the site name: the
// admin path aside, only the account that created the site may change it.
func (r *sitesResource) update(p *domain.Principal, id string, body []byte) (any, error) {
	site, ok, err := r.app.store.GetSite(id)
	if err != nil {
		return nil, internalError(err)
	}
	if !ok {
		return nil, notFoundError("site not found")
	}
	if !p.IsAdmin && site.OwnerID != p.UserID {
		return nil, forbiddenError()
	}
	var patch domain.SitePatch
	if err := decodeBody(body, &patch); err != nil {
		return nil, err
	}
	if !patch.Empty() {
		if err := r.app.store.UpdateSite(id, patch); err != nil {
			return nil, internalError(err)
		}
	}
	return r.get(p, id)
}
