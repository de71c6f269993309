// Package store turns compiled expressions into DynamoDB write requests.
//
// A [Store] knows the tables it writes to: their key attributes, where their
// version attribute lives and whether they are versioned at all. Given the stored
// and the desired form of an item it compiles the smallest update between them
// and wraps it in a [Request], ready to be sent as an UpdateItem call or as one
// item of a TransactWriteItems call.
//
// The package never talks to DynamoDB. Callers send the inputs with their own
// client and pass any error back through [Request.MapError] or
// [MapTransactionError].
//
// # Configuration
//
// Use [DefaultConfig] for tables keyed by "id" that keep a top-level "version":
//
//	cfg := store.DefaultConfig()
//	cfg.Condition = expression.GreaterThanOrEqual
//
// Tables that differ are described with a [TableSpec] in a [Registry]:
//
//	reg := store.NewRegistry()
//	reg.Register(store.TableSpec{
//	    Name:          "orders",
//	    KeyAttributes: []string{"customer_id", "order_id"},
//	    VersionPath:   "$.meta.revision",
//	})
//
// # Errors
//
// The package defines domain-specific errors:
//
//   - [ErrAlreadyExists] - a first write found the item already there
//   - [ErrConcurrentModification] - the version lock failed
//   - [ErrNoChanges] - an unversioned update had nothing to write
//   - [ErrMissingKey] - a key attribute is absent from both items
//   - [ErrKeyChanged] - the items disagree on a key attribute
package store
