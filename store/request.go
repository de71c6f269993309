package store

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/jacentio/dyndiff/expression"
)

// MaxTransactionItems is the most items DynamoDB accepts in one transaction.
const MaxTransactionItems = 100

// Request is a compiled write of one item.
type Request struct {
	Table      string
	Key        PK
	Expression expression.Expression

	// FirstWrite is set when the condition only admits an item that does not exist yet.
	FirstWrite bool

	ReturnValues types.ReturnValue
}

// And adds a condition that must hold as well, with its own alias tables.
// Tokens shared with the compiled expression must stand for the same name or value.
func (r *Request) And(condition string, names map[string]string, values map[string]types.AttributeValue) error {
	extra, err := fromAttributeValues(values)
	if err != nil {
		return err
	}
	mergedNames, err := mergeExprNames(r.Expression.ExpressionAttributeNames, names)
	if err != nil {
		return err
	}
	mergedValues, err := mergeExprValues(r.Expression.ExpressionAttributeValues, extra)
	if err != nil {
		return err
	}
	r.Expression.ConditionExpression = andConditions(r.Expression.ConditionExpression, condition)
	r.Expression.ExpressionAttributeNames = mergedNames
	r.Expression.ExpressionAttributeValues = mergedValues
	return nil
}

// UpdateItemInput returns the request as an UpdateItem call.
func (r *Request) UpdateItemInput() *dynamodb.UpdateItemInput {
	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.Table),
		Key:                       r.Key,
		UpdateExpression:          aws.String(r.Expression.UpdateExpression),
		ExpressionAttributeNames:  r.Expression.ExpressionAttributeNames,
		ExpressionAttributeValues: r.Expression.AttributeValues(),
		ReturnValues:              r.ReturnValues,
	}
	if r.Expression.ConditionExpression != "" {
		input.ConditionExpression = aws.String(r.Expression.ConditionExpression)
	}
	return input
}

// TransactWriteItem returns the request as one item of a transaction.
func (r *Request) TransactWriteItem() types.TransactWriteItem {
	update := &types.Update{
		TableName:                 aws.String(r.Table),
		Key:                       r.Key,
		UpdateExpression:          aws.String(r.Expression.UpdateExpression),
		ExpressionAttributeNames:  r.Expression.ExpressionAttributeNames,
		ExpressionAttributeValues: r.Expression.AttributeValues(),
	}
	if r.Expression.ConditionExpression != "" {
		update.ConditionExpression = aws.String(r.Expression.ConditionExpression)
	}
	return types.TransactWriteItem{Update: update}
}

// MapError maps a failed condition of this request, sent on its own with
// UpdateItemInput, to ErrAlreadyExists or ErrConcurrentModification. Other
// errors are returned unchanged. A cancelled transaction does not say which
// item failed here: use MapTransactionError for requests sent with Transaction.
func (r *Request) MapError(err error) error {
	if err == nil {
		return nil
	}

	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return r.conditionError()
	}

	return err
}

func (r *Request) conditionError() error {
	if r.FirstWrite {
		return ErrAlreadyExists
	}
	return ErrConcurrentModification
}

// Transaction bundles requests into one TransactWriteItems call. Each input
// carries a fresh client request token.
func Transaction(requests ...*Request) (*dynamodb.TransactWriteItemsInput, error) {
	if len(requests) > MaxTransactionItems {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyItems, len(requests), MaxTransactionItems)
	}
	items := make([]types.TransactWriteItem, len(requests))
	for i, r := range requests {
		items[i] = r.TransactWriteItem()
	}
	return &dynamodb.TransactWriteItemsInput{
		TransactItems:      items,
		ClientRequestToken: aws.String(uuid.NewString()),
	}, nil
}

// MapTransactionError maps a cancelled transaction to the error of the first
// request whose condition failed. requests must be in transaction order.
func MapTransactionError(err error, requests []*Request) error {
	if err == nil {
		return nil
	}

	var txErr *types.TransactionCanceledException
	if errors.As(err, &txErr) {
		for i, reason := range txErr.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" && i < len(requests) {
				return requests[i].conditionError()
			}
		}
	}

	return err
}
