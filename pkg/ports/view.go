package ports

// View is the lookup-by-id contract of the page layer.
// Operations on ids that match no element are no-ops.
type View interface {
	Hide(id string)
	FadeOut(id string)
	SetText(id, text string)
}

// Notifier owns the page's single message region.
// Each call replaces the previous content and starts a fade-out.
type Notifier interface {
	ShowMessage(text, category string)
}

// Navigator performs full-page transitions.
type Navigator interface {
	Navigate(url string)
	Reload()
}

// Page bundles the three page-facing ports.
type Page interface {
	View
	Notifier
	Navigator
}
