package domain

// Conversation is one entry in the chat sidebar, either a direct thread
// or a group. Unread counts are backend-computed; the client only caches
// them between fetches.
type Conversation struct {
	ID              ChatID     `json:"id"`
	Kind            ChatKind   `json:"-"`
	Name            string     `json:"name,omitempty"`
	OtherUserID     UserID     `json:"other_user_id,omitempty"`
	OtherUserName   string     `json:"other_user_name,omitempty"`
	LastMessage     string     `json:"last_message,omitempty"`
	LastMessageTime *Timestamp `json:"last_message_time,omitempty"`
	UnreadCount     int        `json:"unread_count"`
	MemberCount     int        `json:"member_count,omitempty"`
}

// Message is immutable once created; the client never edits or deletes one.
type Message struct {
	ID         MessageID `json:"id"`
	ChatID     ChatID    `json:"chat_id"`
	SenderID   UserID    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	IsOwn      bool      `json:"is_own"`
	CreatedAt  Timestamp `json:"created_at"`
}

// GroupInfo is the detail view of a group conversation.
type GroupInfo struct {
	ID          ChatID        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	CreatedAt   Timestamp     `json:"created_at"`
	Members     []GroupMember `json:"members"`
}

type GroupMember struct {
	ID       UserID `json:"id"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}

// ChatSelection identifies the open conversation; the zero value means
// no chat is selected.
type ChatSelection struct {
	ID   ChatID
	Kind ChatKind
	Name string
}

func (s ChatSelection) IsZero() bool {
	return s.ID == 0
}
