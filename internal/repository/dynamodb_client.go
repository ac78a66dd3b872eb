package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"portfolio-site/internal/domain"
)

const (
	skTheme     = "PREF#theme"
	ttlDuration = 365 * 24 * time.Hour
)

// dynamodbAPI is the minimal DynamoDB interface required by Client.
// Defined here for testability.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Client wraps a DynamoDB table holding visitor preferences.
type Client struct {
	api       dynamodbAPI
	tableName string
	now       func() time.Time
}

// New creates a new repository Client.
func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName, now: time.Now}, nil
}

// visitorPK returns the DynamoDB partition key for a visitor.
func visitorPK(visitorID string) string {
	return "VISITOR#" + visitorID
}

// GetPreference reads the visitor's theme. A missing item is not an error.
func (c *Client) GetPreference(ctx context.Context, visitorID string) (domain.Preference, bool, error) {
	if strings.TrimSpace(visitorID) == "" {
		return domain.Preference{}, false, errors.New("repository: GetPreference: visitor id is required")
	}
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: visitorPK(visitorID)},
			"SK": &types.AttributeValueMemberS{Value: skTheme},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.Preference{}, false, fmt.Errorf("repository: GetPreference get item: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return domain.Preference{}, false, nil
	}

	theme, err := strAttr(out.Item, "theme")
	if err != nil {
		return domain.Preference{}, false, fmt.Errorf("repository: GetPreference decode theme: %w", err)
	}
	updatedAt, _ := strAttr(out.Item, "updatedAt") // allow empty
	return domain.Preference{
		VisitorID: visitorID,
		Theme:     domain.Theme(theme),
		UpdatedAt: updatedAt,
	}, true, nil
}

// PutPreference writes or replaces the visitor's theme.
func (c *Client) PutPreference(ctx context.Context, pref domain.Preference) error {
	if strings.TrimSpace(pref.VisitorID) == "" {
		return errors.New("repository: PutPreference: visitor id is required")
	}
	_, err := c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item:      c.preferenceItem(pref),
	})
	if err != nil {
		return fmt.Errorf("repository: PutPreference: %w", err)
	}
	return nil
}

func (c *Client) preferenceItem(pref domain.Preference) map[string]types.AttributeValue {
	updatedAt := pref.UpdatedAt
	if updatedAt == "" {
		updatedAt = c.now().UTC().Format(time.RFC3339)
	}
	return map[string]types.AttributeValue{
		"PK":        &types.AttributeValueMemberS{Value: visitorPK(pref.VisitorID)},
		"SK":        &types.AttributeValueMemberS{Value: skTheme},
		"visitorId": &types.AttributeValueMemberS{Value: pref.VisitorID},
		"theme":     &types.AttributeValueMemberS{Value: string(pref.Theme)},
		"updatedAt": &types.AttributeValueMemberS{Value: updatedAt},
		"ttl":       &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", c.now().Add(ttlDuration).Unix())},
	}
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}
