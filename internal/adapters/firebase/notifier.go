package firebase

import (
	"context"
	"fmt"
	"log"
	"road-issue-service/internal/domain"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
)

// Notifier sends route-watch alerts through Firebase Cloud Messaging.
type Notifier struct {
	client *messaging.Client
}

func NewNotifier(ctx context.Context, app *fb.App) (*Notifier, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase messaging client: %w", err)
	}
	return &Notifier{client: client}, nil
}

func (n *Notifier) NotifyRouteIssues(ctx context.Context, deviceToken string, issues []domain.Issue) error {
	if deviceToken == "" || len(issues) == 0 {
		return nil
	}

	id, err := n.client.Send(ctx, routeAlertMessage(deviceToken, issues))
	if err != nil {
		return fmt.Errorf("send route alert: %w", err)
	}

	log.Printf("route alert sent message_id=%s issues=%d", id, len(issues))
	return nil
}

func routeAlertMessage(deviceToken string, issues []domain.Issue) *messaging.Message {
	ids := make([]string, 0, len(issues))
	var severe []domain.Issue
	for _, i := range issues {
		ids = append(ids, i.ID)
		if i.Type.Severe() {
			severe = append(severe, i)
		}
	}

	title := "Traffic Update"
	body := fmt.Sprintf("%d issue(s) detected on your route", len(issues))
	severity := "normal"
	if len(severe) > 0 {
		title = "Traffic Alert"
		body = fmt.Sprintf("%d severe issue(s) detected on your route: %s", len(severe), issueLabel(severe[0]))
		severity = "severe"
	}

	return &messaging.Message{
		Token: deviceToken,
		Data: map[string]string{
			"type":     "route_issues",
			"severity": severity,
			"count":    strconv.Itoa(len(issues)),
			"issueIds": strings.Join(ids, ","),
		},
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}
}

var typeLabels = map[domain.IssueType]string{
	domain.IssuePothole:   "Pothole",
	domain.IssueRoadworks: "Roadworks",
	domain.IssueAccident:  "Accident",
	domain.IssueClosure:   "Road closure",
	domain.IssueFlooding:  "Flooding",
	domain.IssueDebris:    "Debris",
	domain.IssueTraffic:   "Heavy traffic",
	domain.IssueOther:     "Road issue",
}

func issueLabel(i domain.Issue) string {
	if i.Title != "" {
		return i.Title
	}
	if label, ok := typeLabels[i.Type]; ok {
		return label
	}
	r, size := utf8.DecodeRuneInString(string(i.Type))
	if r == utf8.RuneError {
		return "An issue"
	}
	return string(unicode.ToUpper(r)) + string(i.Type)[size:]
}
