// Package expression compiles document changes into DynamoDB update expressions.
//
// [Update] turns the difference between two snapshots of an item into an
// UpdateExpression together with its ExpressionAttributeNames and
// ExpressionAttributeValues tables:
//
//	expr, err := expression.Update(expression.UpdateInput{
//	    Original: original,
//	    Modified: modified,
//	})
//	// expr.UpdateExpression == "SET #price = :price REMOVE #title"
//
// Additions and overwrites share a single SET clause (additions first), removals
// go to REMOVE. Attribute names and values are always addressed through
// placeholder tokens, so any key text is accepted.
//
// # Optimistic Locking
//
// [Versioned] does the same and also writes a version attribute and a
// ConditionExpression that guards the write:
//
//	attribute_not_exists (#expectedVersion)   first write
//	#expectedVersion = :expectedVersion      every later write
//
// [VersionLock] builds only the version write and its condition. With a custom
// [Condition] and an explicit new value it doubles as a range lock, e.g. a lease
// that may only be taken while its expiry lies in the past.
//
// All functions are pure: they perform no I/O, keep no state between calls and
// are safe for concurrent use.
package expression
