package constants

// StorageStatus is the canonical 4-value lifecycle vocabulary persisted
// on a task row.
type StorageStatus string

const (
	StatusWishlist StorageStatus = "wishlist"
	StatusTodo     StorageStatus = "todo"
	StatusActive   StorageStatus = "active"
	StatusDone     StorageStatus = "done"
)

// UIStatus is the display-facing vocabulary. Callers outside the core
// only ever see these values.
type UIStatus string

const (
	UIWishlist  UIStatus = "wishlist"
	UITodo      UIStatus = "todo"
	UIInProcess UIStatus = "in-process"
	UIFinished  UIStatus = "finished"
)
