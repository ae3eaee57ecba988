package api

import (
	"context"
	"fmt"

	"crm-console/internal/domain"
)

func chatBase(kind domain.ChatKind, id domain.ChatID) string {
	if kind == domain.ChatGroup {
		return fmt.Sprintf("/chat/groups/%d", id)
	}
	return fmt.Sprintf("/chat/direct/%d", id)
}

func (c *Client) ListDirectChats(ctx context.Context) ([]domain.Conversation, error) {
	var resp struct {
		Chats []domain.Conversation `json:"chats"`
	}
	if err := c.get(ctx, "/chat/direct", &resp); err != nil {
		return nil, err
	}
	for i := range resp.Chats {
		resp.Chats[i].Kind = domain.ChatDirect
	}
	return resp.Chats, nil
}

func (c *Client) ListGroupChats(ctx context.Context) ([]domain.Conversation, error) {
	var resp struct {
		Groups []domain.Conversation `json:"groups"`
	}
	if err := c.get(ctx, "/chat/groups", &resp); err != nil {
		return nil, err
	}
	for i := range resp.Groups {
		resp.Groups[i].Kind = domain.ChatGroup
	}
	return resp.Groups, nil
}

func (c *Client) ListMessages(ctx context.Context, kind domain.ChatKind, id domain.ChatID) ([]domain.Message, error) {
	var resp struct {
		Messages []domain.Message `json:"messages"`
	}
	if err := c.get(ctx, chatBase(kind, id)+"/messages", &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

func (c *Client) SendMessage(ctx context.Context, kind domain.ChatKind, id domain.ChatID, content string) error {
	body := struct {
		Content string `json:"content"`
	}{Content: content}
	return c.post(ctx, chatBase(kind, id)+"/messages", body, nil)
}

func (c *Client) MarkChatRead(ctx context.Context, kind domain.ChatKind, id domain.ChatID) error {
	return c.post(ctx, chatBase(kind, id)+"/read", struct{}{}, nil)
}

func (c *Client) CreateDirectChat(ctx context.Context, userID domain.UserID) (*domain.Conversation, error) {
	body := struct {
		UserID domain.UserID `json:"user_id"`
	}{UserID: userID}
	var conv domain.Conversation
	if err := c.post(ctx, "/chat/direct", body, &conv); err != nil {
		return nil, err
	}
	conv.Kind = domain.ChatDirect
	return &conv, nil
}

func (c *Client) CreateGroupChat(ctx context.Context, name, description string, memberIDs []domain.UserID) (*domain.Conversation, error) {
	body := struct {
		Name        string          `json:"name"`
		Description string          `json:"description,omitempty"`
		MemberIDs   []domain.UserID `json:"member_ids"`
	}{Name: name, Description: description, MemberIDs: memberIDs}
	var conv domain.Conversation
	if err := c.post(ctx, "/chat/groups", body, &conv); err != nil {
		return nil, err
	}
	conv.Kind = domain.ChatGroup
	return &conv, nil
}

func (c *Client) GroupInfo(ctx context.Context, id domain.ChatID) (*domain.GroupInfo, error) {
	var info domain.GroupInfo
	if err := c.get(ctx, fmt.Sprintf("/chat/groups/%d", id), &info); err != nil {
		return nil, err
	}
	return &info, nil
}
