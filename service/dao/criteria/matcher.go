// Package criteria evaluates dao parameters against record fields.
package criteria

import (
	"strings"

	"github.com/viant/scheduler/service/dao"
)

// StateParameter is the parameter name FilterByState reacts to.
const StateParameter = "State"

// FilterByState reports whether state satisfies every State parameter.
// Matching is case-insensitive; parameters with other names or without
// values are ignored.
func FilterByState(state string, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil || parameter.Name != StateParameter || len(parameter.Values) == 0 {
			continue
		}
		if !anyEqualFold(state, parameter.Values) {
			return false
		}
	}
	return true
}

func anyEqualFold(value string, candidates []string) bool {
	for _, candidate := range candidates {
		if strings.EqualFold(value, candidate) {
			return true
		}
	}
	return false
}
