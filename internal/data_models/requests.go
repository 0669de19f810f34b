package dto

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateTaskRequest accepts a free-form status string; the status codec
// normalizes it into the storage vocabulary.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	AssignedTo  string `json:"assigned_to"`
}

// UpdateTaskRequest is a partial mutation: nil fields are untouched.
// An explicit empty assigned_to clears the assignee back to the owner.
type UpdateTaskRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Status          *string `json:"status"`
	AssignedTo      *string `json:"assigned_to"`
	CompletionNotes *string `json:"completion_notes"`
}

type AddMemberRequest struct {
	UserID string `json:"user_id"`
}

type CreateNoteRequest struct {
	Content string `json:"content"`
}

type CreateAttachmentRequest struct {
	FileName string `json:"file_name"`
}
