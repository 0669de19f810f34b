// Package status translates between the UI status vocabulary and the
// storage vocabulary, and normalizes loosely-typed inbound strings into
// the storage enum.
package status

import (
	"strings"

	"task-board-system.com/task-board-system/internal/constants"
)

// synonyms maps normalized inbound strings to their storage value. Keys
// are lowercased with whitespace, hyphens and underscores stripped, so
// "In Progress", "in-progress" and "in_progress" all hit the same row.
// The table grew out of strings real clients actually sent; it is not
// meant to be exhaustive.
var synonyms = map[string]constants.StorageStatus{
	"wishlist": constants.StatusWishlist,
	"backlog":  constants.StatusWishlist,
	"someday":  constants.StatusWishlist,
	"icebox":   constants.StatusWishlist,
	"later":    constants.StatusWishlist,

	"todo":    constants.StatusTodo,
	"pending": constants.StatusTodo,
	"open":    constants.StatusTodo,
	"new":     constants.StatusTodo,
	"planned": constants.StatusTodo,

	"active":     constants.StatusActive,
	"inprogress": constants.StatusActive,
	"inprocess":  constants.StatusActive,
	"doing":      constants.StatusActive,
	"wip":        constants.StatusActive,
	"started":    constants.StatusActive,
	"working":    constants.StatusActive,

	"done":      constants.StatusDone,
	"complete":  constants.StatusDone,
	"completed": constants.StatusDone,
	"finished":  constants.StatusDone,
	"resolved":  constants.StatusDone,
	"closed":    constants.StatusDone,
	"fixed":     constants.StatusDone,
}

var toUI = map[constants.StorageStatus]constants.UIStatus{
	constants.StatusWishlist: constants.UIWishlist,
	constants.StatusTodo:     constants.UITodo,
	constants.StatusActive:   constants.UIInProcess,
	constants.StatusDone:     constants.UIFinished,
}

var toStorage = map[constants.UIStatus]constants.StorageStatus{
	constants.UIWishlist:  constants.StatusWishlist,
	constants.UITodo:      constants.StatusTodo,
	constants.UIInProcess: constants.StatusActive,
	constants.UIFinished:  constants.StatusDone,
}

// Normalize maps an arbitrary inbound status string to a storage value.
// It is total: empty or unrecognized input defaults to todo.
func Normalize(raw string) constants.StorageStatus {
	key := strings.ToLower(raw)
	key = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', '_':
			return -1
		}
		return r
	}, key)

	if s, ok := synonyms[key]; ok {
		return s
	}
	return constants.StatusTodo
}

// ToUI maps a storage status to its UI counterpart. Unknown input falls
// back to the todo pairing so the function stays total.
func ToUI(s constants.StorageStatus) constants.UIStatus {
	if ui, ok := toUI[s]; ok {
		return ui
	}
	return constants.UITodo
}

// ToStorage maps a UI status to its storage counterpart.
func ToStorage(ui constants.UIStatus) constants.StorageStatus {
	if s, ok := toStorage[ui]; ok {
		return s
	}
	return constants.StatusTodo
}
