package constants

// NotificationType tags a persisted notification row.
type NotificationType string

const (
	NotificationTaskCreated      NotificationType = "task_created"
	NotificationTaskAssigned     NotificationType = "task_assigned"
	NotificationTaskCompleted    NotificationType = "task_completed"
	NotificationTaskDeleted      NotificationType = "task_deleted"
	NotificationTaskUpdated      NotificationType = "task_updated"
	NotificationStatusChanged    NotificationType = "status_changed"
	NotificationProjectInvite    NotificationType = "project_invite"
	NotificationProjectRemoved   NotificationType = "project_removed"
	NotificationProjectCompleted NotificationType = "project_completed"
	NotificationNewMemberJoined  NotificationType = "new_member_joined"
	NotificationFileUploaded     NotificationType = "file_uploaded"
)

// MemberRole is a member's role within a project. Owner is a computed
// role: the project owner never has a member row.
type MemberRole string

const (
	RoleOwner  MemberRole = "owner"
	RoleMember MemberRole = "member"
)
