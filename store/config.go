package store

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/dyndiff/expression"
)

// Config holds configuration for the Store.
type Config struct {
	// KeyAttributes names the primary key of tables without a TableSpec.
	// Default: ["id"]
	KeyAttributes []string

	// VersionPath addresses the version attribute of tables that do not set
	// their own. Empty disables version locking for them.
	// Default: "$.version"
	VersionPath string

	// Condition compares the stored version with the expected one.
	// Default: "="
	Condition expression.Condition

	// ExpectedPrefix namespaces the aliases of the version condition.
	// Default: "expected"
	ExpectedPrefix string

	// Orphans writes each new leaf on its own instead of whole new subtrees.
	// Only safe when every intermediate map already exists.
	Orphans bool

	// AliasPrefix namespaces the tokens of unversioned updates.
	AliasPrefix string

	// ReturnValues is requested on every UpdateItemInput.
	// Default: NONE
	ReturnValues types.ReturnValue
}

// DefaultConfig returns defaults for tables keyed by "id" with a top-level version.
func DefaultConfig() Config {
	return Config{
		KeyAttributes:  []string{"id"},
		VersionPath:    expression.DefaultVersionPath,
		Condition:      expression.Equal,
		ExpectedPrefix: expression.DefaultExpectedPrefix,
		ReturnValues:   types.ReturnValueNone,
	}
}

// validate fills the settings that have no meaningful zero value.
func (c *Config) validate() {
	if len(c.KeyAttributes) == 0 {
		c.KeyAttributes = []string{"id"}
	}
	if c.Condition == "" {
		c.Condition = expression.Equal
	}
	if c.ExpectedPrefix == "" {
		c.ExpectedPrefix = expression.DefaultExpectedPrefix
	}
	if c.ReturnValues == "" {
		c.ReturnValues = types.ReturnValueNone
	}
}
