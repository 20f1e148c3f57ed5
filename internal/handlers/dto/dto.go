package dto

// CreateGroupRequest is the body of POST /api/groups/create.
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// SendMessageRequest is the body of POST /api/groups/:id/send-message.
type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatMessage is the wire shape of a chat message, both in the messages
// listing and in the group_message realtime event.
type ChatMessage struct {
	User      string `json:"user"`
	Message   string `json:"message"`
	UserImage string `json:"user_image"`
}

// SendMessagePayload is the data of an inbound send_message event.
type SendMessagePayload struct {
	Message string `json:"message"`
}

// GroupMemberInfo is one member entry inside a group response.
type GroupMemberInfo struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	UserImage string `json:"user_image"`
}

// GroupResponse is the group dict returned by discover/create.
type GroupResponse struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Members     []GroupMemberInfo `json:"members"`
}

// ActivityEntry is one recent-activity feed item, annotated with how many
// days ago the completion happened.
type ActivityEntry struct {
	UserName      string `json:"user_name"`
	UserEmail     string `json:"user_email"`
	UserPicture   string `json:"user_picture"`
	CompletedDate string `json:"completed_date"`
	DaysAgo       int    `json:"days_ago"`
}
