package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripJSONFence(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding prose", "Here is the data:\n{\"a\":1}\nHope that helps!", `{"a":1}`},
		{"nested braces", `noise {"a":{"b":2}} trailing`, `{"a":{"b":2}}`},
		{"whitespace", "   \n {\"a\":1} \n  ", `{"a":1}`},
		{"no object at all", "nothing here", "nothing here"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripJSONFence(tc.in))
		})
	}
}
