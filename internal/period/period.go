// Package period holds the clinic's time-period vocabulary.
package period

import "sort"

// Unknown is the label for codes outside the vocabulary.
const Unknown = "未知"

// Period is one clinic session slot.
type Period struct {
	Code   int
	Label  string
	Detail string // label with the concrete clock-time range
}

// Vocabulary maps period codes to labels and back. It is immutable after construction.
type Vocabulary struct {
	periods []Period
	byCode  map[int]Period
	byLabel map[string]int
}

// Default returns the morning/afternoon/evening vocabulary.
func Default() *Vocabulary {
	return New([]Period{
		{Code: 1, Label: "上午", Detail: "上午 8:00-12:00"},
		{Code: 2, Label: "下午", Detail: "下午 14:00-18:00"},
		{Code: 3, Label: "晚上", Detail: "晚上 19:00-21:00"},
	})
}

// New builds a vocabulary ordered by code. A period without a Detail uses its Label.
// Later duplicates of a code are ignored.
func New(periods []Period) *Vocabulary {
	v := &Vocabulary{
		byCode:  make(map[int]Period, len(periods)),
		byLabel: make(map[string]int, len(periods)*2),
	}
	for _, p := range periods {
		if _, dup := v.byCode[p.Code]; dup {
			continue
		}
		if p.Detail == "" {
			p.Detail = p.Label
		}
		v.byCode[p.Code] = p
		v.periods = append(v.periods, p)
	}
	sort.Slice(v.periods, func(i, j int) bool { return v.periods[i].Code < v.periods[j].Code })
	for _, p := range v.periods {
		v.byLabel[p.Label] = p.Code
		if _, taken := v.byLabel[p.Detail]; !taken {
			v.byLabel[p.Detail] = p.Code
		}
	}
	return v
}

// Periods returns the recognized periods in code order.
func (v *Vocabulary) Periods() []Period {
	out := make([]Period, len(v.periods))
	copy(out, v.periods)
	return out
}

// Known reports whether code is part of the vocabulary.
func (v *Vocabulary) Known(code int) bool {
	_, ok := v.byCode[code]
	return ok
}

// Label returns the short label for code, or Unknown.
func (v *Vocabulary) Label(code int) string {
	if p, ok := v.byCode[code]; ok {
		return p.Label
	}
	return Unknown
}

// Detail returns the label with clock-time range for code, or Unknown.
func (v *Vocabulary) Detail(code int) string {
	if p, ok := v.byCode[code]; ok {
		return p.Detail
	}
	return Unknown
}

// Code looks up a period by its short or detailed label.
func (v *Vocabulary) Code(label string) (int, bool) {
	code, ok := v.byLabel[label]
	return code, ok
}
