package services

import (
	"context"
	"fmt"
	"log"

	"foodbox_backend/pkg/config"
	"foodbox_backend/pkg/database"
	"foodbox_backend/pkg/models"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"google.golang.org/api/option"
)

var fcmClient *messaging.Client

// InitFCM initializes Firebase Cloud Messaging
func InitFCM() error {
	ctx := context.Background()

	opt := option.WithCredentialsFile(config.AppConfig.GoogleApplicationCredentials)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return fmt.Errorf("failed to initialize Firebase app: %v", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize FCM client: %v", err)
	}

	fcmClient = client
	return nil
}

// SendPushNotification sends a notification to a single device
func SendPushNotification(deviceToken, title, body string, data map[string]string) (string, error) {
	if fcmClient == nil {
		return "", fmt.Errorf("FCM client not initialized")
	}

	ctx := context.Background()

	message := &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	response, err := fcmClient.Send(ctx, message)
	if err != nil {
		return "", fmt.Errorf("failed to send notification: %v", err)
	}

	return response, nil
}

// NotifyUser pushes to every registered device of a user. Best effort:
// failures are logged, never propagated into the calling flow.
func NotifyUser(userID int, title, body string, data map[string]string) {
	if fcmClient == nil {
		return
	}

	var tokens []models.UserDeviceToken
	if err := database.DB.Where(map[string]interface{}{"userId": userID}).Find(&tokens).Error; err != nil {
		log.Printf("FCM: failed to load device tokens for user %d: %v", userID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	for _, t := range tokens {
		if _, err := SendPushNotification(t.Token, title, body, data); err != nil {
			log.Printf("FCM: failed to notify user %d on device %d: %v", userID, t.ID, err)
		}
	}
}
