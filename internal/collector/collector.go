// Package collector accumulates the language elements discovered during a
// scan run.
package collector

import (
	"sync"

	"langscan/internal/progress"
)

// LanguageItem is one (category, message) pair.
type LanguageItem struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Result is an immutable view of a collector at the end of a run.
type Result struct {
	// Categories maps a category to its distinct messages in discovery order.
	Categories map[string][]string `json:"categories"`
	// Items lists every distinct pair grouped by category, categories in
	// discovery order.
	Items []LanguageItem `json:"items"`
	// Count is len(Items).
	Count int `json:"count"`
}

// Collector is a deduplicating registry of language elements, safe for use
// by multiple goroutines. A pair is stored at most once.
type Collector struct {
	sink progress.Sink

	mu       sync.Mutex
	order    []string                       // categories in first-seen order
	messages map[string][]string            // category → messages in insertion order
	seen     map[string]map[string]struct{} // category → message set
	count    int
}

// New creates an empty collector reporting every recorded element to sink.
func New(sink progress.Sink) *Collector {
	if sink == nil {
		sink = progress.Discard{}
	}
	return &Collector{
		sink:     sink,
		messages: make(map[string][]string),
		seen:     make(map[string]map[string]struct{}),
	}
}

// Record stores the pair and reports whether it was new. The sink is
// notified for duplicates as well.
func (c *Collector) Record(category, message string) bool {
	added := c.add(category, message)
	c.sink.Detected(category, message)
	return added
}

func (c *Collector) add(category, message string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	set, ok := c.seen[category]
	if !ok {
		set = make(map[string]struct{})
		c.seen[category] = set
		c.order = append(c.order, category)
	}
	if _, dup := set[message]; dup {
		return false
	}
	set[message] = struct{}{}
	c.messages[category] = append(c.messages[category], message)
	c.count++
	return true
}

// RecordItems records every item in order and returns how many were new.
func (c *Collector) RecordItems(items []LanguageItem) int {
	added := 0
	for _, item := range items {
		if c.Record(item.Category, item.Message) {
			added++
		}
	}
	return added
}

// Len returns the number of distinct pairs.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Snapshot copies the current state. Items are grouped by category, in the
// order categories were first seen, each followed by its messages in
// insertion order.
func (c *Collector) Snapshot() *Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := &Result{
		Categories: make(map[string][]string, len(c.order)),
		Items:      make([]LanguageItem, 0, c.count),
		Count:      c.count,
	}
	for _, category := range c.order {
		msgs := c.messages[category]
		res.Categories[category] = append([]string(nil), msgs...)
		for _, msg := range msgs {
			res.Items = append(res.Items, LanguageItem{Category: category, Message: msg})
		}
	}
	return res
}
