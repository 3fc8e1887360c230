package dynamosessionrepo

import (
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	pkgerrors "github.com/pkg/errors"

	"github.com/jrsteele09/go-credential-issuer/address"
	"github.com/jrsteele09/go-credential-issuer/sessions"
)

// Secondary indexes on the session table.
const (
	AuthorizationCodeIndex = "authorizationCode-index"
	AccessTokenIndex       = "accessToken-index"
)

// DynamoAPI is the subset of the DynamoDB client the repo uses, narrowed
// so tests can inject a fake.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

var _ sessions.Repo = (*DynamoSessionRepo)(nil)

// DynamoSessionRepo persists sessions in a DynamoDB table keyed by
// sessionId, with secondary indexes on authorizationCode and accessToken.
type DynamoSessionRepo struct {
	api       DynamoAPI
	tableName string
	nowTime   func() time.Time
}

type RepoOption func(*DynamoSessionRepo)

// WithNowTime sets the clock used for expiry filtering (primarily for testing).
func WithNowTime(now func() time.Time) RepoOption {
	return func(sr *DynamoSessionRepo) {
		sr.nowTime = now
	}
}

func NewDynamoSessionRepo(api DynamoAPI, tableName string, options ...RepoOption) *DynamoSessionRepo {
	sr := &DynamoSessionRepo{
		api:       api,
		tableName: tableName,
		nowTime:   time.Now,
	}
	for _, opt := range options {
		opt(sr)
	}
	return sr
}

func (sr *DynamoSessionRepo) Put(ctx context.Context, session *sessions.Session) error {
	item, err := attributevalue.MarshalMap(session)
	if err != nil {
		return pkgerrors.Wrap(err, "[DynamoSessionRepo.Put] MarshalMap")
	}

	_, err = sr.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(sr.tableName),
		Item:      item,
	})
	if err != nil {
		return pkgerrors.Wrap(err, "[DynamoSessionRepo.Put] PutItem")
	}
	return nil
}

func (sr *DynamoSessionRepo) Get(ctx context.Context, sessionID string) (*sessions.Session, error) {
	out, err := sr.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(sr.tableName),
		Key: map[string]types.AttributeValue{
			"sessionId": &types.AttributeValueMemberS{Value: sessionID},
		},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "[DynamoSessionRepo.Get] GetItem")
	}
	if out.Item == nil {
		return nil, sessions.ErrNotFound
	}

	var session sessions.Session
	if err := attributevalue.UnmarshalMap(out.Item, &session); err != nil {
		return nil, pkgerrors.Wrap(err, "[DynamoSessionRepo.Get] UnmarshalMap")
	}
	if session.Expired(sr.nowTime()) {
		return nil, sessions.ErrNotFound
	}
	return &session, nil
}

func (sr *DynamoSessionRepo) GetByAuthorizationCode(ctx context.Context, code string) (*sessions.Session, error) {
	return sr.queryIndex(ctx, AuthorizationCodeIndex, "authorizationCode", code)
}

func (sr *DynamoSessionRepo) GetByAccessToken(ctx context.Context, token string) (*sessions.Session, error) {
	return sr.queryIndex(ctx, AccessTokenIndex, "accessToken", token)
}

func (sr *DynamoSessionRepo) UpdateAccessToken(ctx context.Context, sessionID, token string) error {
	_, err := sr.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(sr.tableName),
		Key: map[string]types.AttributeValue{
			"sessionId": &types.AttributeValueMemberS{Value: sessionID},
		},
		UpdateExpression:    aws.String("SET accessToken = :token"),
		ConditionExpression: aws.String("attribute_exists(sessionId) AND attribute_not_exists(accessToken)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":token": &types.AttributeValueMemberS{Value: token},
		},
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if pkgerrors.As(err, &conditionFailed) {
			return sessions.ErrTokenAlreadyIssued
		}
		return pkgerrors.Wrap(err, "[DynamoSessionRepo.UpdateAccessToken] UpdateItem")
	}
	return nil
}

func (sr *DynamoSessionRepo) UpdateAddresses(ctx context.Context, sessionID string, addresses []address.CanonicalAddress) error {
	addressList, err := attributevalue.MarshalList(addresses)
	if err != nil {
		return pkgerrors.Wrap(err, "[DynamoSessionRepo.UpdateAddresses] MarshalList")
	}

	_, err = sr.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(sr.tableName),
		Key: map[string]types.AttributeValue{
			"sessionId": &types.AttributeValueMemberS{Value: sessionID},
		},
		UpdateExpression:    aws.String("SET addresses = :addresses"),
		ConditionExpression: aws.String("attribute_exists(sessionId)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":addresses": &types.AttributeValueMemberL{Value: addressList},
		},
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if pkgerrors.As(err, &conditionFailed) {
			return sessions.ErrNotFound
		}
		return pkgerrors.Wrap(err, "[DynamoSessionRepo.UpdateAddresses] UpdateItem")
	}
	return nil
}

// queryIndex resolves a session through a single-attribute secondary index,
// filtering out expired items so a stale code or token behaves as unknown.
func (sr *DynamoSessionRepo) queryIndex(ctx context.Context, indexName, attribute, value string) (*sessions.Session, error) {
	now := strconv.FormatInt(sr.nowTime().Unix(), 10)

	out, err := sr.api.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(sr.tableName),
		IndexName:              aws.String(indexName),
		KeyConditionExpression: aws.String("#attr = :value"),
		FilterExpression:       aws.String("expiryDate > :now"),
		ExpressionAttributeNames: map[string]string{
			"#attr": attribute,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":value": &types.AttributeValueMemberS{Value: value},
			":now":   &types.AttributeValueMemberN{Value: now},
		},
	})
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "[DynamoSessionRepo.queryIndex] Query %s", indexName)
	}
	if len(out.Items) == 0 {
		return nil, sessions.ErrNotFound
	}

	var session sessions.Session
	if err := attributevalue.UnmarshalMap(out.Items[0], &session); err != nil {
		return nil, pkgerrors.Wrapf(err, "[DynamoSessionRepo.queryIndex] UnmarshalMap %s", indexName)
	}
	return &session, nil
}
