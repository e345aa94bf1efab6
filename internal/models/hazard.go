package models

import (
	"time"

	"wayfinder.app/internal/geo"
)

type HazardType string

const (
	HazardMurram       HazardType = "murram"
	HazardConstruction HazardType = "construction"
	HazardPothole      HazardType = "pothole"
	HazardFlooded      HazardType = "flooded"
)

func (t HazardType) Valid() bool {
	switch t {
	case HazardMurram, HazardConstruction, HazardPothole, HazardFlooded:
		return true
	}
	return false
}

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// RoadCondition is a static, named road hazard.
type RoadCondition struct {
	ID          string     `json:"id"`
	Type        HazardType `json:"type"`
	Location    geo.Point  `json:"location"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Severity    Severity   `json:"severity"`
	Verified    bool       `json:"verified"`
	ReportedAt  time.Time  `json:"reportedAt"`
}

// HazardReport is a user submitted hazard before it gets an id.
type HazardReport struct {
	Type        HazardType `json:"type"`
	Location    geo.Point  `json:"location"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Severity    Severity   `json:"severity"`
}

type CameraType string

const (
	CameraFixed   CameraType = "fixed"
	CameraMobile  CameraType = "mobile"
	CameraAverage CameraType = "average"
)

// SpeedCamera is a static enforcement point.
type SpeedCamera struct {
	ID            string     `json:"id"`
	Location      geo.Point  `json:"location"`
	Name          string     `json:"name"`
	SpeedLimitKph int        `json:"speedLimitKph"`
	Type          CameraType `json:"type"`
	Direction     string     `json:"direction,omitempty"`
	Active        bool       `json:"active"`
}
