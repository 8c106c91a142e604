package databricks

import (
	"github.com/leapstack-labs/querygraph/pkg/dialect"
)

func init() {
	dialect.Register(Databricks)
}

// Databricks is the Databricks SQL dialect.
var Databricks = dialect.New(Config).
	WithReservedWords("anti", "except", "intersect", "lateral", "minus", "natural",
		"pivot", "qualify", "semi", "unpivot").
	Build()
