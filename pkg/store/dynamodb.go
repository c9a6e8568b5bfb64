package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/sirupsen/logrus"

	"github.com/vishalk7890/Support-IQ/pkg/insight"
)

// DynamoInsightStore persists derived insight records in a DynamoDB table
// keyed by insight id
type DynamoInsightStore struct {
	logger *logrus.Logger
	client *dynamodb.Client
	table  string
}

// NewDynamoInsightStore creates an insight store backed by DynamoDB
func NewDynamoInsightStore(logger *logrus.Logger, awsCfg aws.Config, table string) *DynamoInsightStore {
	return &DynamoInsightStore{
		logger: logger,
		client: dynamodb.NewFromConfig(awsCfg),
		table:  table,
	}
}

// PutInsight writes one insight record (create or update by id)
func (s *DynamoInsightStore) PutInsight(ctx context.Context, record *insight.Insight) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal insight %s: %w", record.ID, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to store insight %s: %w", record.ID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"insight_id": record.ID,
		"table":      s.table,
	}).Debug("Stored insight")

	return nil
}
