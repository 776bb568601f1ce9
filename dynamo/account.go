package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Vtdarling/student-sympo/account"
	"github.com/Vtdarling/student-sympo/slices"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var _ account.Repository = &DB{}

type accountDynamo struct {
	PK     string
	SK     string
	GSI1PK string
	GSI1SK string

	Version           int
	Email             string
	Phone             string
	Name              string
	College           string
	TechnicalEvent    string
	NonTechnicalEvent string
	EventID           string
	TransactionID     string
	RegisteredAt      time.Time
}

// phoneMarkerDynamo reserves a phone number. Written in the same
// transaction as the account so phone uniqueness holds table-wide.
type phoneMarkerDynamo struct {
	PK    string
	SK    string
	Email string
}

const (
	accountEntityName = "ACCOUNT"
	phoneEntityName   = "PHONE"
)

func accountPK(email string) string {
	return fmt.Sprintf("%s#%s", accountEntityName, email)
}

func accountSK(email string) string {
	return fmt.Sprintf("%s#%s", accountEntityName, email)
}

func phonePK(phone string) string {
	return fmt.Sprintf("%s#%s", phoneEntityName, phone)
}

func newAccountDynamo(acct account.Account) accountDynamo {
	return accountDynamo{
		PK:                accountPK(acct.Email),
		SK:                accountSK(acct.Email),
		GSI1PK:            accountEntityName,
		GSI1SK:            fmt.Sprintf("%s#%s#%s", accountEntityName, acct.RegisteredAt.UTC().Format(time.RFC3339Nano), acct.Email),
		Version:           acct.Version,
		Email:             acct.Email,
		Phone:             acct.Phone,
		Name:              acct.Name,
		College:           acct.College,
		TechnicalEvent:    acct.TechnicalEvent,
		NonTechnicalEvent: acct.NonTechnicalEvent,
		EventID:           acct.EventID,
		TransactionID:     acct.TransactionID,
		RegisteredAt:      acct.RegisteredAt,
	}
}

func accountFromDynamo(item accountDynamo) account.Account {
	return account.Account{
		Version:           item.Version,
		Email:             item.Email,
		Phone:             item.Phone,
		Name:              item.Name,
		College:           item.College,
		TechnicalEvent:    item.TechnicalEvent,
		NonTechnicalEvent: item.NonTechnicalEvent,
		EventID:           item.EventID,
		TransactionID:     item.TransactionID,
		RegisteredAt:      item.RegisteredAt,
	}
}

func (d *DB) CreateAccount(ctx context.Context, acct account.Account) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	dynamoAcct := newAccountDynamo(acct)
	acctItem, err := attributevalue.MarshalMap(dynamoAcct)
	if err != nil {
		return account.NewFailedToTranslateToDBModelError("Failed to translate account to dynamo model", err)
	}
	acctExpr := exprMustBuild(expression.NewBuilder().
		WithCondition(entityDoesNotExistConditional()))

	marker := phoneMarkerDynamo{
		PK:    phonePK(acct.Phone),
		SK:    phonePK(acct.Phone),
		Email: acct.Email,
	}
	markerItem, err := attributevalue.MarshalMap(marker)
	if err != nil {
		return account.NewFailedToTranslateToDBModelError("Failed to translate phone marker to dynamo model", err)
	}
	markerExpr := exprMustBuild(expression.NewBuilder().
		WithCondition(entityDoesNotExistConditional()))

	_, err = d.dynamoClient.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:                 aws.String(d.tableName),
					Item:                      acctItem,
					ConditionExpression:       acctExpr.Condition(),
					ExpressionAttributeNames:  acctExpr.Names(),
					ExpressionAttributeValues: acctExpr.Values(),
				},
			},
			{
				Put: &types.Put{
					TableName:                 aws.String(d.tableName),
					Item:                      markerItem,
					ConditionExpression:       markerExpr.Condition(),
					ExpressionAttributeNames:  markerExpr.Names(),
					ExpressionAttributeValues: markerExpr.Values(),
				},
			},
		},
	})
	if err != nil {
		var transactionFailedErr *types.TransactionCanceledException
		if errors.As(err, &transactionFailedErr) {
			reasons := transactionFailedErr.CancellationReasons
			if cancellationCode(reasons, 0) == conditionalCheckFailed {
				return account.NewEmailAlreadyExistsError(fmt.Sprintf("Account with email %q already exists", acct.Email), err)
			}
			if cancellationCode(reasons, 1) == conditionalCheckFailed {
				return account.NewPhoneAlreadyExistsError(fmt.Sprintf("Account with phone %q already exists", acct.Phone), err)
			}
			return account.NewFailedToWriteError("Transaction cancelled", err)
		} else if errors.Is(err, context.DeadlineExceeded) {
			return account.NewTimeoutError("CreateAccount timed out")
		}

		return account.NewFailedToWriteError("Failed TransactWriteItems call", err)
	}

	return nil
}

func (d *DB) GetAccountByEmail(ctx context.Context, email string) (account.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	resp, err := d.dynamoClient.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: accountPK(email)},
			"SK": &types.AttributeValueMemberS{Value: accountSK(email)},
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return account.Account{}, account.NewTimeoutError("GetAccountByEmail timed out")
		}
		return account.Account{}, account.NewFailedToFetchError(fmt.Sprintf("Failed to fetch account with email %q", email), err)
	}

	if len(resp.Item) == 0 {
		return account.Account{}, account.NewAccountDoesNotExistError(fmt.Sprintf("Account with email %q not found", email), nil)
	}

	var item accountDynamo
	err = attributevalue.UnmarshalMap(resp.Item, &item)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal account from DB: %s", err))
	}
	return accountFromDynamo(item), nil
}

func (d *DB) GetAccounts(ctx context.Context, limit int32, cursor *string) (account.GetAccountsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	keyCond := expression.Key("GSI1PK").Equal(expression.Value(accountEntityName)).
		And(expression.Key("GSI1SK").BeginsWith(accountEntityName))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build dynamo key expression: %s", err))
	}

	var startKey map[string]types.AttributeValue
	if cursor != nil {
		startKey, err = cursorToLastEval(*cursor)
		if err != nil {
			return account.GetAccountsResponse{}, account.NewInvalidCursorError("Invalid cursor", err)
		}
	}

	result, err := d.dynamoClient.Query(ctx, &dynamodb.QueryInput{
		IndexName:                 aws.String(gsi1),
		TableName:                 aws.String(d.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		// Newest signups first
		ScanIndexForward: aws.Bool(false),
		// Fetch 1 more than limit to check if there is another page or not
		Limit:             aws.Int32(limit + 1),
		ExclusiveStartKey: startKey,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return account.GetAccountsResponse{}, account.NewTimeoutError("GetAccounts timed out")
		}
		return account.GetAccountsResponse{}, account.NewFailedToFetchError("Failed to fetch accounts from dynamo", err)
	}

	var dynamoItems []accountDynamo
	err = attributevalue.UnmarshalListOfMaps(result.Items, &dynamoItems)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal dynamo accounts: %s", err))
	}

	hasNextPage := len(dynamoItems) > int(limit)

	var newCursor *string
	if hasNextPage && len(result.LastEvaluatedKey) > 0 {
		// Can't use LastEvalKey directly because we grabbed an extra item to check for next page
		lastItemGivenToUser := result.Items[len(result.Items)-2]
		lastItemKey := getKeyFromItem(result.LastEvaluatedKey, lastItemGivenToUser)
		c, err := lastEvalKeyToCursor(lastItemKey)
		if err != nil {
			panic(fmt.Sprintf("failed to make cursor from lastEvalKey: %s", err))
		}
		newCursor = &c
	}

	return account.GetAccountsResponse{
		Data: slices.Map(dynamoItems, func(v accountDynamo) account.Account {
			return accountFromDynamo(v)
		})[:min(int(limit), len(dynamoItems))],
		Cursor:      newCursor,
		HasNextPage: hasNextPage,
	}, nil
}
