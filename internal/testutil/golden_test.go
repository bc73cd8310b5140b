package testutil

import "testing"

func TestAssertGoldenJSON(t *testing.T) {
	AssertGoldenJSON(t, "sample", struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}{Name: "<蛇行簾> & 捲簾", Price: 450})
}
