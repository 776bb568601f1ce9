package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Vtdarling/student-sympo/account"
	"github.com/Vtdarling/student-sympo/registration"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var _ registration.Repository = &DB{}

// transactionMarkerDynamo reserves a payment reference. The conditional put
// in SaveSubmission is what enforces transaction-ID uniqueness under
// concurrent submissions.
type transactionMarkerDynamo struct {
	PK    string
	SK    string
	Email string
}

const (
	transactionEntityName = "TXN"
	counterEntityName     = "COUNTER"
	eventIDCounterName    = "EVENT_ID"
)

func transactionPK(transactionID string) string {
	return fmt.Sprintf("%s#%s", transactionEntityName, transactionID)
}

func counterPK() string {
	return fmt.Sprintf("%s#%s", counterEntityName, eventIDCounterName)
}

func (d *DB) AccountEmailForTransactionID(ctx context.Context, transactionID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	resp, err := d.dynamoClient.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: transactionPK(transactionID)},
			"SK": &types.AttributeValueMemberS{Value: transactionPK(transactionID)},
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", registration.NewTimeoutError("AccountEmailForTransactionID timed out")
		}
		return "", registration.NewFailedToFetchError(fmt.Sprintf("Failed to fetch transaction marker %q", transactionID), err)
	}

	if len(resp.Item) == 0 {
		return "", nil
	}

	var marker transactionMarkerDynamo
	err = attributevalue.UnmarshalMap(resp.Item, &marker)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal transaction marker from DB: %s", err))
	}
	return marker.Email, nil
}

// NextEventSequence atomically increments the shared pass counter. Two
// concurrent finalizations can never observe the same value.
func (d *DB) NextEventSequence(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	expr := exprMustBuild(expression.NewBuilder().
		WithUpdate(expression.Add(expression.Name("CounterValue"), expression.Value(1))))

	resp, err := d.dynamoClient.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: counterPK()},
			"SK": &types.AttributeValueMemberS{Value: counterPK()},
		},
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, registration.NewTimeoutError("NextEventSequence timed out")
		}
		return 0, registration.NewFailedToWriteError("Failed to increment event ID counter", err)
	}

	var seq int
	err = attributevalue.Unmarshal(resp.Attributes["CounterValue"], &seq)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal counter value from DB: %s", err))
	}
	return seq, nil
}

func (d *DB) SaveSubmission(ctx context.Context, acct account.Account, previousTransactionID string) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	dynamoAcct := newAccountDynamo(acct)
	acctItem, err := attributevalue.MarshalMap(dynamoAcct)
	if err != nil {
		return registration.NewFailedToTranslateToDBModelError("Failed to translate account to dynamo model", err)
	}
	acctExpr := exprMustBuild(expression.NewBuilder().
		WithCondition(existingEntityVersionConditional(acct.Version)))

	marker := transactionMarkerDynamo{
		PK:    transactionPK(acct.TransactionID),
		SK:    transactionPK(acct.TransactionID),
		Email: acct.Email,
	}
	markerItem, err := attributevalue.MarshalMap(marker)
	if err != nil {
		return registration.NewFailedToTranslateToDBModelError("Failed to translate transaction marker to dynamo model", err)
	}
	// Unclaimed, or already claimed by this same account
	markerExpr := exprMustBuild(expression.NewBuilder().
		WithCondition(expression.Name("PK").AttributeNotExists().
			Or(expression.Name("Email").Equal(expression.Value(acct.Email)))))

	items := []types.TransactWriteItem{
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
	}

	// Release the old reference when a resubmission changed it
	if !account.IsPlaceholderTransactionID(previousTransactionID) && previousTransactionID != acct.TransactionID {
		items = append(items, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName: aws.String(d.tableName),
				Key: map[string]types.AttributeValue{
					"PK": &types.AttributeValueMemberS{Value: transactionPK(previousTransactionID)},
					"SK": &types.AttributeValueMemberS{Value: transactionPK(previousTransactionID)},
				},
			},
		})
	}

	_, err = d.dynamoClient.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err != nil {
		var transactionFailedErr *types.TransactionCanceledException
		if errors.As(err, &transactionFailedErr) {
			if cancellationCode(transactionFailedErr.CancellationReasons, 1) == conditionalCheckFailed {
				return registration.NewTransactionIDInUseError(acct.TransactionID)
			}
			return registration.NewFailedToWriteError("Version conflict error", err)
		} else if errors.Is(err, context.DeadlineExceeded) {
			return registration.NewTimeoutError("SaveSubmission timed out")
		}

		return registration.NewFailedToWriteError("Failed TransactWriteItems call", err)
	}

	return nil
}
