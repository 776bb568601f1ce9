package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Vtdarling/student-sympo/account"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
)

type loginEventDynamo struct {
	PK string
	SK string

	ID         uuid.UUID
	Email      string
	Phone      string
	LoggedInAt time.Time
}

const loginEntityName = "LOGIN"

func loginEventPK(email string) string {
	return fmt.Sprintf("%s#%s", loginEntityName, email)
}

func loginEventSK(login account.LoginEvent) string {
	return fmt.Sprintf("%s#%s#%s", loginEntityName, login.LoggedInAt.UTC().Format(time.RFC3339Nano), login.ID)
}

// AppendLoginEvent writes one audit record. The timestamp and a UUID form
// the sort key, so records are never overwritten.
func (d *DB) AppendLoginEvent(ctx context.Context, login account.LoginEvent) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	item, err := attributevalue.MarshalMap(loginEventDynamo{
		PK:         loginEventPK(login.Email),
		SK:         loginEventSK(login),
		ID:         login.ID,
		Email:      login.Email,
		Phone:      login.Phone,
		LoggedInAt: login.LoggedInAt,
	})
	if err != nil {
		return account.NewFailedToTranslateToDBModelError("Failed to translate login event to dynamo model", err)
	}

	_, err = d.dynamoClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      item,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return account.NewTimeoutError("AppendLoginEvent timed out")
		}
		return account.NewFailedToWriteError("Failed PutItem call", err)
	}

	return nil
}
