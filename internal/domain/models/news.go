package models

import (
	"encoding/json"
	"strings"
)

type NewsItem struct {
	ID       int64   `json:"id"`
	Headline string  `json:"headline"`
	Summary  string  `json:"summary"`
	Source   string  `json:"source"`
	URL      string  `json:"url"`
	Datetime string  `json:"datetime"`
	Category string  `json:"category"`
	Related  Symbols `json:"related"`
}

type NewsSnapshot struct {
	Meta
	NewsCount int        `json:"news_count"`
	News      []NewsItem `json:"news"`
}

// Symbols is a ticker list. It decodes from either a JSON array or the
// comma separated string some providers send.
type Symbols []string

func (s *Symbols) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*s = list
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	*s = nil
	for _, p := range strings.Split(str, ",") {
		if p = strings.TrimSpace(p); p != "" {
			*s = append(*s, p)
		}
	}
	return nil
}

func (s Symbols) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}
