package mongo

const (
	SchedulesCollection      = "Schedules"
	PropertiesCollection     = "Properties"
	PropertyImagesCollection = "PropertyImages"
	PropertyVideosCollection = "PropertyVideos"
	MembersCollection        = "Members"
	AgentsCollection         = "Agents"
	ClientsCollection        = "Clients"
	WishlistsCollection      = "Wishlists"
)
