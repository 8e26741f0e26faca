package domain

// Collection names a persisted collection. The names match the remote
// replica's collection paths.
type Collection string

const (
	CollectionContentTypes Collection = "contentTypes"
	CollectionContent      Collection = "content"
	CollectionMenuItems    Collection = "menuItems"
	CollectionAPIEndpoints Collection = "apiEndpoints"
	CollectionUsers        Collection = "users"
	CollectionSettings     Collection = "settings"
)

func (c Collection) String() string { return string(c) }

// Collections lists every collection in dependency order, owners first.
func Collections() []Collection {
	return []Collection{
		CollectionContentTypes,
		CollectionContent,
		CollectionAPIEndpoints,
		CollectionMenuItems,
		CollectionUsers,
		CollectionSettings,
	}
}
