// Package stream provides DynamoDB Streams handlers that replicate item changes
// as minimal updates.
package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jacentio/dyndiff/document"
	"github.com/jacentio/dyndiff/store"
)

// Sink executes compiled requests, typically by sending req.UpdateItemInput()
// with a DynamoDB client.
type Sink interface {
	Apply(ctx context.Context, req *store.Request) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, req *store.Request) error

// Apply calls f.
func (f SinkFunc) Apply(ctx context.Context, req *store.Request) error { return f(ctx, req) }

// Handler processes DynamoDB stream events for replication.
type Handler struct {
	store  *store.Store
	sink   Sink
	logger *slog.Logger
}

// NewHandler creates a new stream handler. Source tables and their replicas are
// taken from the store's registry.
//
// A versioned replica needs a source that writes the same version attribute and
// a NEW_AND_OLD_IMAGES stream. Register the replica as Unversioned otherwise.
func NewHandler(s *store.Store, sink Sink, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:  s,
		sink:   sink,
		logger: logger,
	}
}

// HandleReplication copies every INSERT and MODIFY of a replicated table to its
// replica as the smallest update between the old and new images.
// This function is designed to be used as an AWS Lambda handler.
func (h *Handler) HandleReplication(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if err := h.processRecord(ctx, record); err != nil {
			h.logger.Error("failed to process record",
				"eventID", record.EventID,
				"error", err,
			)
			return err // Will retry, eventually DLQ
		}
	}
	return nil
}

// processRecord processes a single DynamoDB stream record.
func (h *Handler) processRecord(ctx context.Context, record events.DynamoDBEventRecord) error {
	key := keyString(record.Change.Keys)

	switch events.DynamoDBOperationType(record.EventName) {
	case events.DynamoDBOperationTypeInsert, events.DynamoDBOperationTypeModify:
	case events.DynamoDBOperationTypeRemove:
		h.logger.Warn("skipping removal", "eventID", record.EventID, "key", key)
		return nil
	default:
		h.logger.Warn("skipping unknown event", "eventID", record.EventID, "eventName", record.EventName)
		return nil
	}

	table, err := TableFromARN(record.EventSourceArn)
	if err != nil {
		return err
	}
	replica := h.replicaOf(table)
	if replica == "" {
		h.logger.Debug("table is not replicated", "table", table)
		return nil
	}
	if len(record.Change.NewImage) == 0 {
		h.logger.Warn("skipping record without new image",
			"eventID", record.EventID,
			"table", table,
			"streamViewType", record.Change.StreamViewType,
		)
		return nil
	}
	modify := events.DynamoDBOperationType(record.EventName) == events.DynamoDBOperationTypeModify
	if modify && len(record.Change.OldImage) == 0 {
		h.logger.Warn("skipping modification without old image",
			"eventID", record.EventID,
			"table", table,
			"streamViewType", record.Change.StreamViewType,
		)
		return nil
	}

	original, err := ImageDocument(record.Change.OldImage)
	if err != nil {
		return fmt.Errorf("old image: %w", err)
	}
	modified, err := ImageDocument(record.Change.NewImage)
	if err != nil {
		return fmt.Errorf("new image: %w", err)
	}

	req, err := h.store.Update(store.UpdateInput{
		Table:    replica,
		Original: original,
		Modified: modified,
	})
	if errors.Is(err, store.ErrNoChanges) {
		h.logger.Info("nothing to replicate", "table", table, "key", key)
		return nil
	}
	if err != nil {
		return fmt.Errorf("compile %s: %w", table, err)
	}
	if modify && req.FirstWrite {
		return fmt.Errorf("%w: %s to %s", ErrUnversionedSource, table, replica)
	}

	h.logger.Info("replicating record",
		"eventID", record.EventID,
		"table", table,
		"replica", replica,
		"key", key,
		"expression", req.Expression,
	)

	err = req.MapError(h.sink.Apply(ctx, req))
	switch {
	case !modify && errors.Is(err, store.ErrAlreadyExists):
		// Replayed INSERT - idempotent
		h.logger.Info("replica already has item", "replica", replica, "key", key)
		return nil
	case errors.Is(err, store.ErrConcurrentModification):
		h.logger.Warn("replica diverged from source",
			"replica", replica,
			"key", key,
			"error", err,
		)
		return nil
	case err != nil:
		return fmt.Errorf("apply to %s: %w", replica, err)
	}
	return nil
}

func (h *Handler) replicaOf(table string) string {
	if h.store == nil || h.store.Registry() == nil {
		return ""
	}
	spec, ok := h.store.Registry().Table(table)
	if !ok {
		return ""
	}
	return spec.ReplicaTable
}

// keyString renders a stream key for logs.
func keyString(keys map[string]events.DynamoDBAttributeValue) string {
	n, err := document.FromItem(ConvertStreamKey(keys))
	if err != nil {
		return ""
	}
	return n.String()
}
