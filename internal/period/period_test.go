package period

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultVocabulary(t *testing.T) {
	v := Default()

	testCases := []struct {
		code   int
		label  string
		detail string
	}{
		{code: 1, label: "上午", detail: "上午 8:00-12:00"},
		{code: 2, label: "下午", detail: "下午 14:00-18:00"},
		{code: 3, label: "晚上", detail: "晚上 19:00-21:00"},
		{code: 9, label: Unknown, detail: Unknown},
		{code: 0, label: Unknown, detail: Unknown},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.label, v.Label(tc.code), "label of %d", tc.code)
		assert.Equal(t, tc.detail, v.Detail(tc.code), "detail of %d", tc.code)
	}
	assert.True(t, v.Known(2))
	assert.False(t, v.Known(9))
}

func TestReverseLookup(t *testing.T) {
	v := Default()

	code, ok := v.Code("下午")
	assert.True(t, ok)
	assert.Equal(t, 2, code)

	code, ok = v.Code("晚上 19:00-21:00")
	assert.True(t, ok)
	assert.Equal(t, 3, code)

	_, ok = v.Code("凌晨")
	assert.False(t, ok)
}

func TestNew_SortsAndDeduplicates(t *testing.T) {
	v := New([]Period{
		{Code: 2, Label: "PM"},
		{Code: 1, Label: "AM", Detail: "AM 8-12"},
		{Code: 2, Label: "ignored"},
	})

	periods := v.Periods()
	assert.Len(t, periods, 2)
	assert.Equal(t, 1, periods[0].Code)
	assert.Equal(t, "PM", periods[1].Detail, "detail falls back to label")
	assert.Equal(t, "PM", v.Label(2))
}
