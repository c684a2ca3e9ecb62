// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
)

// QueueGroup load-balances job delivery across worker instances.
const QueueGroup = "bouquins-workers"

func natsOptions(logger watermill.LoggerAdapter) []natsgo.Option {
	return []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}
}

// NewPublisher creates a JetStream publisher for job enqueueing.
func NewPublisher(url string, log *slog.Logger) (message.Publisher, error) {
	logger := watermill.NewSlogLogger(log)

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOptions(logger),
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision: true,
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create job publisher: %w", err)
	}
	return pub, nil
}

// NewSubscriber creates a durable queue-group subscriber for job workers.
// A message that is nacked is redelivered by the broker.
func NewSubscriber(url string, log *slog.Logger) (message.Subscriber, error) {
	logger := watermill.NewSlogLogger(log)

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              url,
		QueueGroupPrefix: QueueGroup,
		NatsOptions:      natsOptions(logger),
		AckWaitTimeout:   60 * time.Second,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision: true,
			DurablePrefix: QueueGroup,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create job subscriber: %w", err)
	}
	return sub, nil
}
