package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/getAlby/relayadmin.go/db/models"
	"github.com/getsentry/sentry-go"
	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ziflex/lecho/v3"
)

// bufPool is a classic buffer pool pattern that allows more clever reuse of heap memory.
// Instead of allocating new memory everytime we need to encode an action we
// reuse buffers from this buffer pool.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

const (
	contentTypeJSON = "application/json"

	defaultAdminActionExchange = "relayadmin_actions"
)

// SubscribeToActionsFunc returns a channel of admin actions and a function
// that ends the subscription
type SubscribeToActionsFunc = func() (actions chan models.AdminAction, unsubscribe func(), err error)

type Client interface {
	StartPublishAdminActions(context.Context, SubscribeToActionsFunc) error
	// Close will close all connections to rabbitmq
	Close() error
}

type DefaultClient struct {
	amqpClient AMQPClient

	logger *lecho.Logger

	adminActionExchange string
}

type ClientOption = func(client *DefaultClient)

func WithAdminActionExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		if exchange != "" {
			client.adminActionExchange = exchange
		}
	}
}

func WithLogger(logger *lecho.Logger) ClientOption {
	return func(client *DefaultClient) {
		client.logger = logger
	}
}

func NewClient(amqpClient AMQPClient, options ...ClientOption) (Client, error) {
	client := &DefaultClient{
		amqpClient: amqpClient,

		logger: lecho.New(
			os.Stdout,
			lecho.WithLevel(log.DEBUG),
			lecho.WithTimestamp(),
		),

		adminActionExchange: defaultAdminActionExchange,
	}

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

func (client *DefaultClient) Close() error { return client.amqpClient.Close() }

// StartPublishAdminActions publishes every admin action to a topic exchange
// with routing key "admin.<action>" until ctx is done
func (client *DefaultClient) StartPublishAdminActions(ctx context.Context, subscribeFunc SubscribeToActionsFunc) error {
	err := client.amqpClient.ExchangeDeclare(
		client.adminActionExchange,
		// topic is a type of exchange that allows routing messages to different queue's bases on a routing key
		"topic",
		// Durable and Non-Auto-Deleted exchanges will survive server restarts and remain
		// declared when there are no remaining bindings.
		true,
		false,
		// Non-Internal exchange's accept direct publishing
		false,
		// Nowait: We set this to false as we want to wait for a server response
		// to check whether the exchange was created succesfully
		false,
		nil,
	)
	if err != nil {
		return err
	}

	client.logger.Info("Starting rabbitmq admin action publisher")

	actions, unsubscribe, err := subscribeFunc()
	if err != nil {
		return err
	}
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		case action, ok := <-actions:
			if !ok {
				return nil
			}
			if err := client.publishAdminAction(ctx, action); err != nil {
				captureErr(client.logger, err)
			}
		}
	}
}

func (client *DefaultClient) publishAdminAction(ctx context.Context, action models.AdminAction) error {
	payload := bufPool.Get().(*bytes.Buffer)
	defer func() {
		payload.Reset()
		bufPool.Put(payload)
	}()
	if err := json.NewEncoder(payload).Encode(action); err != nil {
		return err
	}

	key := "admin." + action.Action

	err := client.amqpClient.PublishWithContext(ctx,
		client.adminActionExchange,
		key,
		false,
		false,
		amqp.Publishing{
			ContentType: contentTypeJSON,
			Body:        payload.Bytes(),
		},
	)
	if err != nil {
		return err
	}

	client.logger.Debugf("Successfully published admin action %s on %s", key, action.Target)

	return nil
}

func captureErr(logger *lecho.Logger, err error) {
	logger.Error(err)
	sentry.CaptureException(err)
}
