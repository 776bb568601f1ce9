package dynamo

import (
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	gsi1 = "GSI1"

	conditionalCheckFailed = "ConditionalCheckFailed"
)

type DB struct {
	dynamoClient *dynamodb.Client
	tableName    string
}

func NewDB(dynamoClient *dynamodb.Client, tableName string) *DB {
	return &DB{
		dynamoClient: dynamoClient,
		tableName:    tableName,
	}
}

func entityDoesNotExistConditional() expression.ConditionBuilder {
	return expression.Name("PK").AttributeNotExists()
}

func existingEntityVersionConditional(version int) expression.ConditionBuilder {
	return expression.Name("PK").AttributeExists().
		And(expression.Name("Version").Equal(expression.Value(version - 1)))
}

func exprMustBuild(builder expression.Builder) expression.Expression {
	expr, err := builder.Build()
	if err != nil {
		panic("failed to build dynamo expression")
	}

	return expr
}

// cancellationCode reports the cancellation code for item i of a failed
// transaction, or "" when the item was not the cause.
func cancellationCode(reasons []types.CancellationReason, i int) string {
	if i >= len(reasons) || reasons[i].Code == nil {
		return ""
	}
	return *reasons[i].Code
}
