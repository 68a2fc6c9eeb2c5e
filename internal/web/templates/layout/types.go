package layout

// FlashMessage is a one-time notice carried across a redirect
type FlashMessage struct {
	Type    string // success, error, info
	Message string
}

// PageData holds data shared by every page
type PageData struct {
	Title    string
	Flash    *FlashMessage
	LoggedIn bool
	IsAdmin  bool
}

func flashClass(flashType string) string {
	return "flash-" + flashType
}
