package events

import (
	"context"
	"fmt"

	awsclients "career-guide/internal/common/aws"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSPublisher publishes envelopes to a single topic. The routing key travels
// as a message attribute so subscriptions can filter on it.
type SNSPublisher struct {
	client   awsclients.SNSAPI
	topicARN string
}

func NewSNSPublisher(client awsclients.SNSAPI, topicARN string) *SNSPublisher {
	return &SNSPublisher{client: client, topicARN: topicARN}
}

func (p *SNSPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	_, body, err := encode(routingKey, payload)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"routingKey": {
				DataType:    aws.String("String"),
				StringValue: aws.String(routingKey),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}

func (p *SNSPublisher) Close() error { return nil }
