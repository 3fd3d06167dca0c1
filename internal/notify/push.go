// Package notify wraps the outbound delivery channels: FCM push messages
// and SMTP mail. Both are thin I/O layers with no business logic.
package notify

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

type PushSender struct {
	client *messaging.Client
}

// NewPushSender builds an FCM client from a service-account credentials
// file. An empty path disables push (nil sender is a safe no-op).
func NewPushSender(ctx context.Context, credentialsFile string) (*PushSender, error) {
	if credentialsFile == "" {
		return nil, nil
	}
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase messaging: %w", err)
	}
	return &PushSender{client: client}, nil
}

// Send delivers a notification to one device token.
func (p *PushSender) Send(ctx context.Context, deviceToken, title, body string) error {
	if p == nil || p.client == nil {
		return nil
	}
	_, err := p.client.Send(ctx, &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Token: deviceToken,
	})
	return err
}
