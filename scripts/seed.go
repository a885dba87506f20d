// Seed script that writes a demo corpus for `synthesize run`.
// Run with: go run ./scripts/seed.go > demo.jsonl
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Harshitk-cp/litsynth/internal/domain"
)

type record struct {
	Document domain.DocumentInfo       `json:"document"`
	Findings []domain.ExtractedFinding `json:"findings"`
}

func year(y int) *int { return &y }

var corpus = []record{
	doc("smith-2019", "Sleep-dependent memory consolidation", 2019,
		"Sleep after learning improves next-day recall",
		"Slow-wave sleep duration predicts retention"),
	doc("lee-2020", "Caffeine and working memory", 2020,
		"Moderate caffeine intake improves short-term recall",
		"High caffeine doses increase anxiety"),
	doc("garcia-2021", "A null result for post-learning sleep", 2021,
		"Sleep after learning has no measurable effect on recall"),
	doc("chen-2021", "Exercise in older adults", 2021,
		"Aerobic exercise improves mood in adults over sixty"),
	doc("okafor-2022", "Daytime naps and word lists", 2022,
		"Short daytime naps improve recall of word lists",
		"Nap benefits disappear after one week"),
	doc("novak-2023", "Blue light before bed", 2023,
		"Evening screen exposure delays sleep onset"),
}

func doc(id, title string, y int, findings ...string) record {
	r := record{Document: domain.DocumentInfo{ID: id, Title: title, Year: year(y)}}
	for _, f := range findings {
		r.Findings = append(r.Findings, domain.ExtractedFinding{Text: f})
	}
	return r
}

func main() {
	enc := json.NewEncoder(os.Stdout)
	for _, r := range corpus {
		if err := enc.Encode(r); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Fprintf(os.Stderr, "Wrote %d documents\n", len(corpus))
}
