package providers

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ListResponse is the {status, data, count} envelope used by list endpoints.
type ListResponse[T any] struct {
	Status string `json:"status"`
	Data   []T    `json:"data"`
	Count  int    `json:"count"`
}

// RawEvent is an event as published by the remote API.
type RawEvent struct {
	ID          FlexString      `json:"id"`
	Title       string          `json:"title"`
	Date        string          `json:"date"`
	Teams       []FlexString    `json:"teams"`
	Leagues     []FlexString    `json:"leagues"`
	Seasons     []FlexString    `json:"seasons"`
	Venues      []FlexString    `json:"venues"`
	Results     Results         `json:"results"`
	Video       string          `json:"video"`
	Protocol    json.RawMessage `json:"protocol,omitempty"`
	PlayerStats json.RawMessage `json:"player_stats,omitempty"`
}

// TeamResult is one team's line in the results table.
type TeamResult struct {
	Goals   FlexString  `json:"goals"`
	First   FlexString  `json:"first"`
	Second  FlexString  `json:"second"`
	Third   FlexString  `json:"third"`
	Outcome FlexOutcome `json:"outcome"`
}

// RawEntity is a team, league, season or venue entry.
type RawEntity struct {
	ID        FlexString `json:"id"`
	Name      string     `json:"name"`
	ShortName string     `json:"short_name,omitempty"`
	City      string     `json:"city,omitempty"`
	Address   string     `json:"address,omitempty"`
	Logo      string     `json:"logo,omitempty"`
}

// FlexString decodes a JSON string or number into its string form.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// FlexOutcome decodes an outcome published either as "win" or ["win"].
type FlexOutcome string

func (o *FlexOutcome) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = ""
		return nil
	}
	if data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		if len(list) == 0 {
			*o = ""
			return nil
		}
		*o = FlexOutcome(strings.ToLower(strings.TrimSpace(list[0])))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*o = FlexOutcome(strings.ToLower(strings.TrimSpace(s)))
	return nil
}

// Results maps team id to that team's result line. The API sends [] instead
// of {} when an event has no results yet.
type Results map[string]TeamResult

func (r *Results) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) || data[0] == '[' {
		*r = nil
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Results, len(raw))
	for key, value := range raw {
		// Some installs key a header row with "0"; it is not a team line.
		if key == "0" {
			continue
		}
		var line TeamResult
		if err := json.Unmarshal(value, &line); err != nil {
			return err
		}
		out[key] = line
	}
	*r = out
	return nil
}

// FirstID returns the first id of a list, or "" when empty.
func FirstID(ids []FlexString) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[0].String()
}
