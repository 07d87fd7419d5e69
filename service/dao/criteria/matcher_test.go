package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/scheduler/service/dao"
)

func TestFilterByState(t *testing.T) {
	testCases := []struct {
		name       string
		state      string
		parameters []*dao.Parameter
		expected   bool
	}{
		{name: "no parameters", state: "READY", expected: true},
		{name: "single match", state: "RUNNING", parameters: []*dao.Parameter{dao.NewParameter("State", "running")}, expected: true},
		{name: "single mismatch", state: "READY", parameters: []*dao.Parameter{dao.NewParameter("State", "WAITING")}, expected: false},
		{name: "set match", state: "WAITING", parameters: []*dao.Parameter{dao.NewParameter("State", "READY", "WAITING")}, expected: true},
		{name: "set mismatch", state: "RUNNING", parameters: []*dao.Parameter{dao.NewParameter("State", "READY", "WAITING")}, expected: false},
		{name: "other name ignored", state: "READY", parameters: []*dao.Parameter{dao.NewParameter("Name", "ls")}, expected: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FilterByState(tc.state, tc.parameters))
		})
	}
}
