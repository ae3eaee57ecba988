// Package render turns fetched data into the strings the terminal shows.
// Everything here is a pure function, so the presentation rules are
// testable without a screen.
package render

import (
	"fmt"
	"strings"
	"time"

	"crm-console/internal/domain"
)

// RelativeTime is the compact age label used in the chat sidebar and the
// notification list.
func RelativeTime(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}

func Currency(amount float64, currency string) string {
	return fmt.Sprintf("%.2f %s", amount, currency)
}

// Preview truncates a last-message preview the way the sidebar shows it.
func Preview(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// ConversationLine renders one sidebar row: name, unread badge, age.
func ConversationLine(conv domain.Conversation, now time.Time) string {
	name := conv.Name
	if conv.Kind == domain.ChatDirect {
		name = conv.OtherUserName
	}

	var b strings.Builder
	if conv.UnreadCount > 0 {
		fmt.Fprintf(&b, "[::b]%s[::-] [red](%d)[-]", name, conv.UnreadCount)
	} else {
		b.WriteString(name)
	}
	if conv.Kind == domain.ChatGroup && conv.MemberCount > 0 {
		fmt.Fprintf(&b, " [gray]· %d members[-]", conv.MemberCount)
	}
	if conv.LastMessage != "" {
		fmt.Fprintf(&b, "\n  [gray]%s[-]", Preview(conv.LastMessage, 50))
	}
	if conv.LastMessageTime != nil {
		fmt.Fprintf(&b, " [gray]%s[-]", RelativeTime(now, *conv.LastMessageTime))
	}
	return b.String()
}

// MessageLines renders a message history for the chat pane. Own messages
// are right-aligned markers; sender names only show in groups for other
// people's messages.
func MessageLines(messages []domain.Message, kind domain.ChatKind, now time.Time) []string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		ts := RelativeTime(now, m.CreatedAt)
		if m.IsOwn {
			lines = append(lines, fmt.Sprintf("[green]me[-] [gray]%s[-]\n  %s", ts, m.Content))
			continue
		}
		sender := ""
		if kind == domain.ChatGroup {
			sender = m.SenderName
		}
		if sender == "" {
			lines = append(lines, fmt.Sprintf("[blue]•[-] [gray]%s[-]\n  %s", ts, m.Content))
		} else {
			lines = append(lines, fmt.Sprintf("[blue]%s[-] [gray]%s[-]\n  %s", sender, ts, m.Content))
		}
	}
	return lines
}

// NotificationLine renders one row of the notifications page; unread rows
// carry the bold marker the "unread visual state" toggles off.
func NotificationLine(n domain.Notification, now time.Time) string {
	age := RelativeTime(now, n.CreatedAt)
	if n.IsRead {
		return fmt.Sprintf("%s [gray]%s[-]\n  %s", n.Title, age, n.Message)
	}
	return fmt.Sprintf("[::b]%s[::-] [red]●[-] [gray]%s[-]\n  %s", n.Title, age, n.Message)
}

// PaginationLabel is the "page X of Y" footer under every listing table.
func PaginationLabel(p domain.Page) string {
	total := p.Total
	if total < 1 {
		total = 1
	}
	return fmt.Sprintf("page %d of %d", p.Current, total)
}

func StatusColor(status domain.TaskStatus) string {
	switch status {
	case domain.TaskCompleted:
		return "green"
	case domain.TaskInProgress:
		return "yellow"
	default:
		return "white"
	}
}

func PriorityColor(priority domain.TaskPriority) string {
	switch priority {
	case domain.PriorityHigh:
		return "red"
	case domain.PriorityMedium:
		return "yellow"
	default:
		return "gray"
	}
}

func OrderStatusColor(status domain.OrderStatus) string {
	switch status {
	case domain.OrderCompleted:
		return "green"
	case domain.OrderProcessing:
		return "yellow"
	case domain.OrderCancelled:
		return "red"
	default:
		return "white"
	}
}
