package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"yatube/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	rabbitConn    *amqp.Connection
	rabbitChannel *amqp.Channel
	feedExchange  = "follow_feed_events"
)

// FeedEvent - событие о новом посте для подписчика автора
type FeedEvent struct {
	UserID   int64     `json:"user_id"`
	PostID   int64     `json:"post_id"`
	AuthorID int64     `json:"author_id"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}

// InitRabbitMQ инициализирует соединение и exchange
func InitRabbitMQ() error {
	url := ""
	if config.AppConfig != nil {
		url = config.AppConfig.RabbitMQ.URL
	}
	if url == "" {
		return fmt.Errorf("rabbitmq is not configured")
	}
	var err error
	rabbitConn, err = amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	rabbitChannel, err = rabbitConn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	if err := rabbitChannel.ExchangeDeclare(
		feedExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,   // args
	); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	log.Printf("RabbitMQ initialized successfully with URL: %s", url)
	return nil
}

// PublishFeedEvent публикует событие о новом посте для конкретного подписчика
func PublishFeedEvent(ctx context.Context, event FeedEvent) error {
	if rabbitChannel == nil {
		return fmt.Errorf("RabbitMQ channel not initialized")
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	routingKey := fmt.Sprintf("follower.%d", event.UserID)
	return rabbitChannel.PublishWithContext(ctx,
		feedExchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// sendFeedEventWS пушит событие подписчику напрямую через WebSocket
// (fallback, когда RabbitMQ недоступен)
func sendFeedEventWS(event FeedEvent) {
	if !GlobalWSConnManager.Connected(event.UserID) {
		return
	}
	pushMsg := struct {
		Event string `json:"event"`
		FeedEvent
	}{
		Event:     "feed_posted",
		FeedEvent: event,
	}
	if pushData, err := json.Marshal(pushMsg); err == nil {
		GlobalWSConnManager.Send(event.UserID, pushData)
	}
}

// StartFeedEventConsumer запускает воркер, который слушает события
// и пушит их подписчикам через WebSocket
func StartFeedEventConsumer(ctx context.Context, queueName string) error {
	if rabbitChannel == nil {
		return fmt.Errorf("RabbitMQ channel not initialized")
	}
	q, err := rabbitChannel.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := rabbitChannel.QueueBind(
		q.Name,
		"follower.*",
		feedExchange,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}
	msgs, err := rabbitChannel.Consume(
		q.Name,
		"",
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				var event FeedEvent
				if err := json.Unmarshal(msg.Body, &event); err != nil {
					log.Println("Failed to unmarshal feed event:", err)
					continue
				}
				sendFeedEventWS(event)
			}
		}
	}()
	return nil
}

func CloseRabbitMQ() {
	if rabbitChannel != nil {
		_ = rabbitChannel.Close()
		rabbitChannel = nil
	}
	if rabbitConn != nil {
		_ = rabbitConn.Close()
		rabbitConn = nil
	}
}
