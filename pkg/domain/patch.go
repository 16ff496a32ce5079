package domain

// Patch types carry sparse updates: nil means "leave the column alone".
// Fields double as the update allow-list; anything not represented here
// cannot be changed through a patch.

type CollectionPatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Software    *[]string `json:"software"`
	Equipment   *[]string `json:"equipment"`
	OrderIndex  *int      `json:"orderIndex"`
}

func (p CollectionPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Software == nil &&
		p.Equipment == nil && p.OrderIndex == nil
}

type PostPatch struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Published *bool   `json:"published"`
}

func (p PostPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Published == nil
}

type SettingPatch struct {
	URL   *string `json:"url"`
	Value *string `json:"value"`
}

func (p SettingPatch) Empty() bool {
	return p.URL == nil && p.Value == nil
}

type UserPatch struct {
	FullName     *string `json:"fullName"`
	CustomDomain *string `json:"customDomain"`
}

func (p UserPatch) Empty() bool {
	return p.FullName == nil && p.CustomDomain == nil
}

type SitePatch struct {
	Template     *string `json:"template"`
	CustomDomain *string `json:"customDomain"`
}

func (p SitePatch) Empty() bool {
	return p.Template == nil && p.CustomDomain == nil
}
