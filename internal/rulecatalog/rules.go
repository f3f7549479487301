package rulecatalog

import (
	"encoding/json"

	"github.com/openlend/reportengine/internal/projection"
)

func marshalRules(rules []projection.Rule) ([]byte, error) {
	return json.Marshal(rules)
}
