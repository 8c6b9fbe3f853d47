package models

import (
	"time"
)

// MoodPoint is one recorded mood on the history chart.
type MoodPoint struct {
	Date time.Time `json:"date"`
	Mood string    `json:"mood"`
}

// ThemeCloudItem is a theme and how many entries mentioned it.
type ThemeCloudItem struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}
