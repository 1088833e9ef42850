package core

// NoticeKind classifies a user-facing notification.
type NoticeKind string

// Notice kinds.
const (
	NoticeWarning NoticeKind = "warning" // user input problem, nothing was searched
	NoticeEmpty   NoticeKind = "empty"   // search finished without results
	NoticeError   NoticeKind = "error"   // unexpected fault during a search
)

// Notice is a toast-style message shown to the user after an action.
type Notice struct {
	Kind        NoticeKind `json:"kind"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
}

// String renders the notice on one line.
func (n Notice) String() string {
	if n.Description == "" {
		return n.Title
	}
	return n.Title + ": " + n.Description
}
